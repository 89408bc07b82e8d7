package history

// Terminal statuses for a recorded run. The caller distinguishes an archive
// with no eligible boundaries from one where every attempted cut failed.
const (
	StatusApplied      = "applied"
	StatusNoBoundaries = "no_boundaries"
	StatusNoCuts       = "no_cuts"
	StatusDryRun       = "dry_run"
)

// StatusFor derives the terminal status from a run's counts.
func StatusFor(dryRun bool, boundaries, applied int) string {
	switch {
	case dryRun:
		return StatusDryRun
	case boundaries == 0:
		return StatusNoBoundaries
	case applied == 0:
		return StatusNoCuts
	default:
		return StatusApplied
	}
}
