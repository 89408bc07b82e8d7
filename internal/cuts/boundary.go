package cuts

import "fmt"

// DefaultMaxGap is the largest frame gap between consecutive clips that
// still counts as an edit boundary.
const DefaultMaxGap = 10

// Boundary is one candidate edit point between two adjacent, aligned pairs.
// CutFrame is the first frame after the before-pair's video clip.
type Boundary struct {
	Before   Pair
	After    Pair
	CutFrame int
}

// Gap returns the frame distance between the before clip's end and the
// after clip's start.
func (b Boundary) Gap() int {
	return b.After.Start - b.CutFrame
}

// DetectBoundaries scans consecutive pairs and keeps the edit points where a
// cut is legal to attempt: both sides aligned and a gap inside [0, maxGap].
// Overlapping clips (negative gap) and gaps beyond maxGap are rejected; both
// mean the clips are not adjacent in the edit sense. A maxGap below zero
// falls back to DefaultMaxGap.
//
// Pairs must already be sorted by Start, which MatchPairs guarantees.
func DetectBoundaries(pairs []Pair, maxGap int) []Boundary {
	if maxGap < 0 {
		maxGap = DefaultMaxGap
	}

	var boundaries []Boundary
	for i := 0; i+1 < len(pairs); i++ {
		before, after := pairs[i], pairs[i+1]
		if !before.Aligned() || !after.Aligned() {
			continue
		}
		cutFrame := before.End()
		gap := after.Start - cutFrame
		if gap < 0 || gap > maxGap {
			continue
		}
		boundaries = append(boundaries, Boundary{
			Before:   before,
			After:    after,
			CutFrame: cutFrame,
		})
	}
	return boundaries
}

// ValidateOffset explains in advance whether a boundary can accommodate the
// given offset: both clips long enough for a symmetric edit and the after
// side's projected Start and In staying non-negative. This is an advisory
// pre-check for previews; the transforms perform the authoritative
// validation before mutating anything.
func ValidateOffset(b Boundary, offset int) (bool, string) {
	minDuration := offset * 2

	if b.Before.Duration < minDuration {
		return false, fmt.Sprintf("clip before (%s) too short for offset %d", b.Before.Name, offset)
	}
	if b.After.Duration < minDuration {
		return false, fmt.Sprintf("clip after (%s) too short for offset %d", b.After.Name, offset)
	}
	if b.After.Start-offset < 0 {
		return false, "offset would push next clip start below 0"
	}
	if b.After.Audio.FrameValue("In", 0)-offset < 0 {
		return false, "offset would push next clip in point below 0"
	}
	return true, ""
}
