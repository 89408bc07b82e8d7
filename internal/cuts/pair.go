package cuts

import (
	"sort"

	"jlcut/internal/timeline"
)

// Pair joins the video and audio clip items that represent one placed
// segment. The denormalized timing fields are a snapshot of the video side
// taken at match time.
type Pair struct {
	Video *timeline.Clip
	Audio *timeline.Clip

	Name     string
	MediaRef string
	Start    int
	Duration int
	In       int
}

type pairKey struct {
	name     string
	mediaRef string
	start    int
}

func keyFor(clip *timeline.Clip) pairKey {
	return pairKey{
		name:     clip.Name(),
		mediaRef: clip.MediaRef(),
		start:    clip.FrameValue("Start", 0),
	}
}

// MatchPairs joins video and audio clips that share (Name, MediaRef, Start).
// Clips without a partner are dropped; they are simply ineligible for cut
// editing. When several audio clips share a key the last one encountered
// wins.
//
// The result is sorted ascending by Start, stable with respect to video
// track order, regardless of the order clips appear in the document.
func MatchPairs(video, audio []*timeline.Clip) []Pair {
	lookup := make(map[pairKey]*timeline.Clip, len(audio))
	for _, clip := range audio {
		lookup[keyFor(clip)] = clip
	}

	pairs := make([]Pair, 0, len(video))
	for _, clip := range video {
		partner, ok := lookup[keyFor(clip)]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			Video:    clip,
			Audio:    partner,
			Name:     clip.Name(),
			MediaRef: clip.MediaRef(),
			Start:    clip.FrameValue("Start", 0),
			Duration: clip.FrameValue("Duration", 0),
			In:       clip.FrameValue("In", 0),
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Start < pairs[j].Start })
	return pairs
}

// Aligned reports whether the pair's video and audio sides agree exactly on
// Start, Duration, and In. Only aligned pairs may form cut boundaries.
func (p Pair) Aligned() bool {
	for _, prop := range []string{"Start", "Duration", "In"} {
		if p.Video.FrameValue(prop, 0) != p.Audio.FrameValue(prop, 0) {
			return false
		}
	}
	return true
}

// End returns the first frame after the pair's video clip.
func (p Pair) End() int {
	return p.Start + p.Duration
}
