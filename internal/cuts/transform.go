package cuts

import (
	"fmt"
	"strings"
)

// Kind selects which cut edit to apply at a boundary.
type Kind string

const (
	// KindJ makes the following segment's audio start before the video cut.
	KindJ Kind = "J"
	// KindL makes the preceding segment's audio continue past the video cut.
	KindL Kind = "L"
)

// ParseKind accepts the case-insensitive tokens "J" and "L".
func ParseKind(token string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "J":
		return KindJ, nil
	case "L":
		return KindL, nil
	default:
		return "", fmt.Errorf("cut type must be J or L, got %q", token)
	}
}

// ApplyJCut shifts the after-pair's audio so it starts offset frames before
// the video cut: Start -= offset, Duration += offset, In -= offset.
//
// The edit is rejected, leaving the clip untouched, when the new Start or
// new In would go negative, or when the clip's original duration is shorter
// than the offset. On success all three properties are updated together;
// with dryRun set the verdict is computed but nothing is written.
func ApplyJCut(b Boundary, offset int, dryRun bool) (bool, string) {
	if offset <= 0 {
		return false, "offset must be positive"
	}

	audio := b.After.Audio
	start := audio.FrameValue("Start", 0)
	duration := audio.FrameValue("Duration", 0)
	in := audio.FrameValue("In", 0)

	newStart := start - offset
	newDuration := duration + offset
	newIn := in - offset

	if newStart < 0 {
		return false, fmt.Sprintf("J-cut would push Start below 0 (new Start=%d)", newStart)
	}
	if newIn < 0 {
		return false, fmt.Sprintf("J-cut would push In below 0 (new In=%d); clip may not have enough source media before the cut point", newIn)
	}
	if duration < offset {
		return false, fmt.Sprintf("clip too short for offset %d (duration=%d)", offset, duration)
	}

	if !dryRun {
		audio.SetFrameValue("Start", newStart)
		audio.SetFrameValue("Duration", newDuration)
		audio.SetFrameValue("In", newIn)
	}

	return true, fmt.Sprintf("J-cut applied to %q: Start %d->%d, Duration %d->%d, In %d->%d",
		b.After.Name, start, newStart, duration, newDuration, in, newIn)
}

// ApplyLCut extends the before-pair's audio past the video cut:
// Duration += offset. Only a degenerate clip (duration below 1) is
// rejected. The document format carries no total source length, so an
// accepted L-cut may ask for more source frames than the media holds;
// that gap is inherent to the format, not something this engine can check.
func ApplyLCut(b Boundary, offset int, dryRun bool) (bool, string) {
	if offset <= 0 {
		return false, "offset must be positive"
	}

	audio := b.Before.Audio
	duration := audio.FrameValue("Duration", 0)
	newDuration := duration + offset

	if duration < 1 {
		return false, fmt.Sprintf("clip too short (duration=%d)", duration)
	}

	if !dryRun {
		audio.SetFrameValue("Duration", newDuration)
	}

	return true, fmt.Sprintf("L-cut applied to %q: Duration %d->%d", b.Before.Name, duration, newDuration)
}

// BatchResult accumulates per-boundary outcomes of one batch application.
// Messages are in boundary-processing order, one per boundary.
type BatchResult struct {
	Applied  int
	Failed   int
	Messages []string
}

// ApplyAll applies the chosen cut to every boundary independently; one
// boundary's failure never blocks another's. Zero boundaries and all-failed
// batches are both legitimate outcomes the caller must tell apart.
func ApplyAll(boundaries []Boundary, offset int, kind Kind, dryRun bool) BatchResult {
	apply := ApplyJCut
	if kind == KindL {
		apply = ApplyLCut
	}

	var result BatchResult
	for i, boundary := range boundaries {
		ok, message := apply(boundary, offset, dryRun)
		if ok {
			result.Applied++
		} else {
			result.Failed++
		}
		result.Messages = append(result.Messages, fmt.Sprintf("boundary %d: %s", i+1, message))
	}
	return result
}
