package cuts_test

import (
	"strings"
	"testing"

	"jlcut/internal/cuts"
	"jlcut/internal/testsupport"
	"jlcut/internal/timeline"
)

func TestParseKind(t *testing.T) {
	for _, token := range []string{"J", "j", " j "} {
		kind, err := cuts.ParseKind(token)
		if err != nil || kind != cuts.KindJ {
			t.Fatalf("ParseKind(%q) = %v, %v", token, kind, err)
		}
	}
	if kind, err := cuts.ParseKind("l"); err != nil || kind != cuts.KindL {
		t.Fatalf("ParseKind(l) = %v, %v", kind, err)
	}
	if _, err := cuts.ParseKind("X"); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

// Scenario from the editing handbook: two butt-cut 100-frame clips with no
// source handle before the second one.
func TestJCutFailsWithoutSourceHandle(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 0},
	)
	if boundary.CutFrame != 100 {
		t.Fatalf("unexpected cut frame: %d", boundary.CutFrame)
	}

	ok, msg := cuts.ApplyJCut(boundary, 8, false)
	if ok {
		t.Fatal("J-cut should fail when In would go negative")
	}
	if !strings.Contains(msg, "In below 0") {
		t.Fatalf("unexpected message: %s", msg)
	}
	// Failure must leave the clip untouched.
	audio := boundary.After.Audio
	if audio.FrameValue("Start", -1) != 100 || audio.FrameValue("Duration", -1) != 100 || audio.FrameValue("In", -1) != 0 {
		t.Fatalf("failed J-cut mutated the clip: Start=%d Duration=%d In=%d",
			audio.FrameValue("Start", -1), audio.FrameValue("Duration", -1), audio.FrameValue("In", -1))
	}

	ok, msg = cuts.ApplyLCut(boundary, 8, false)
	if !ok {
		t.Fatalf("L-cut should succeed: %s", msg)
	}
	if got := boundary.Before.Audio.FrameValue("Duration", -1); got != 108 {
		t.Fatalf("L-cut Duration = %d, want 108", got)
	}
}

func TestJCutShiftsAllThreeFields(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 20},
	)

	ok, msg := cuts.ApplyJCut(boundary, 8, false)
	if !ok {
		t.Fatalf("J-cut should succeed: %s", msg)
	}
	audio := boundary.After.Audio
	if got := audio.FrameValue("Start", -1); got != 92 {
		t.Fatalf("Start = %d, want 92", got)
	}
	if got := audio.FrameValue("Duration", -1); got != 108 {
		t.Fatalf("Duration = %d, want 108", got)
	}
	if got := audio.FrameValue("In", -1); got != 12 {
		t.Fatalf("In = %d, want 12", got)
	}
	// The video side of the pair stays as edited.
	if got := boundary.After.Video.FrameValue("Start", -1); got != 100 {
		t.Fatalf("video Start changed: %d", got)
	}
}

func TestJCutRejectsStartBelowZero(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 5, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 5, Duration: 100, In: 50},
	)
	ok, msg := cuts.ApplyJCut(boundary, 8, false)
	if ok {
		t.Fatal("J-cut should fail when Start would go negative")
	}
	if !strings.Contains(msg, "Start below 0") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestJCutChecksOriginalDurationAgainstOffset(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 200, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 200, Duration: 6, In: 300},
	)
	ok, msg := cuts.ApplyJCut(boundary, 8, false)
	if ok {
		t.Fatal("J-cut should fail when the clip is shorter than the offset")
	}
	if !strings.Contains(msg, "too short") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestLCutOnlyTouchesDuration(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 40, Duration: 60, In: 10},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 0},
	)
	ok, msg := cuts.ApplyLCut(boundary, 12, false)
	if !ok {
		t.Fatalf("L-cut should succeed: %s", msg)
	}
	audio := boundary.Before.Audio
	if got := audio.FrameValue("Duration", -1); got != 72 {
		t.Fatalf("Duration = %d, want 72", got)
	}
	if audio.FrameValue("Start", -1) != 40 || audio.FrameValue("In", -1) != 10 {
		t.Fatalf("L-cut touched Start or In: Start=%d In=%d",
			audio.FrameValue("Start", -1), audio.FrameValue("In", -1))
	}
}

func TestCutsRejectNonPositiveOffsets(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 50},
	)
	for _, offset := range []int{0, -3} {
		if ok, _ := cuts.ApplyJCut(boundary, offset, false); ok {
			t.Fatalf("J-cut accepted offset %d", offset)
		}
		if ok, _ := cuts.ApplyLCut(boundary, offset, false); ok {
			t.Fatalf("L-cut accepted offset %d", offset)
		}
	}
}

func TestDryRunNeverMutatesAndMatchesLiveVerdict(t *testing.T) {
	build := func(t *testing.T) (cuts.Boundary, *timeline.Document) {
		t.Helper()
		video, audio := testsupport.AlignedClips(
			testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
			testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 20},
		)
		pairs, doc := loadPairs(t, video, audio)
		boundaries := cuts.DetectBoundaries(pairs, cuts.DefaultMaxGap)
		if len(boundaries) != 1 {
			t.Fatalf("expected one boundary, got %d", len(boundaries))
		}
		return boundaries[0], doc
	}

	for _, offset := range []int{4, 8, 25, 60} {
		dryBoundary, dryDoc := build(t)
		before, err := dryDoc.WriteBytes()
		if err != nil {
			t.Fatalf("WriteBytes: %v", err)
		}
		dryOK, _ := cuts.ApplyJCut(dryBoundary, offset, true)
		after, err := dryDoc.WriteBytes()
		if err != nil {
			t.Fatalf("WriteBytes: %v", err)
		}
		if string(before) != string(after) {
			t.Fatalf("offset %d: dry run mutated the document", offset)
		}

		liveBoundary, _ := build(t)
		liveOK, _ := cuts.ApplyJCut(liveBoundary, offset, false)
		if dryOK != liveOK {
			t.Fatalf("offset %d: dry-run verdict %v, live verdict %v", offset, dryOK, liveOK)
		}
	}
}

func TestJCutIsNotIdempotent(t *testing.T) {
	boundary := singleBoundary(t,
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 40},
	)
	for i := 0; i < 2; i++ {
		if ok, msg := cuts.ApplyJCut(boundary, 10, false); !ok {
			t.Fatalf("pass %d failed: %s", i, msg)
		}
	}
	// No already-cut marker exists, so the second pass shifts again.
	if got := boundary.After.Audio.FrameValue("Start", -1); got != 80 {
		t.Fatalf("Start after two passes = %d, want 80", got)
	}
	if got := boundary.After.Audio.FrameValue("In", -1); got != 20 {
		t.Fatalf("In after two passes = %d, want 20", got)
	}
}

func threeClipBoundaries(t *testing.T) []cuts.Boundary {
	t.Helper()
	video, audio := testsupport.AlignedClips(
		testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 30},
		testsupport.ClipSpec{Name: "c", MediaRef: "m3", Start: 200, Duration: 100, In: 0},
	)
	pairs, _ := loadPairs(t, video, audio)
	boundaries := cuts.DetectBoundaries(pairs, cuts.DefaultMaxGap)
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(boundaries))
	}
	return boundaries
}

func TestApplyAllIsolatesFailures(t *testing.T) {
	boundaries := threeClipBoundaries(t)

	// J-cut with offset 8: boundary a|b succeeds (b.In=30), boundary b|c
	// fails (c.In=0).
	result := cuts.ApplyAll(boundaries, 8, cuts.KindJ, false)
	if result.Applied != 1 || result.Failed != 1 {
		t.Fatalf("unexpected counts: applied=%d failed=%d", result.Applied, result.Failed)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(result.Messages))
	}
	if !strings.HasPrefix(result.Messages[0], "boundary 1:") || !strings.HasPrefix(result.Messages[1], "boundary 2:") {
		t.Fatalf("messages out of order: %v", result.Messages)
	}
}

func TestApplyAllAccountingIsOrderIndependent(t *testing.T) {
	forward := cuts.ApplyAll(threeClipBoundaries(t), 8, cuts.KindJ, true)

	boundaries := threeClipBoundaries(t)
	reversed := []cuts.Boundary{boundaries[1], boundaries[0]}
	backward := cuts.ApplyAll(reversed, 8, cuts.KindJ, true)

	if forward.Applied != backward.Applied || forward.Failed != backward.Failed {
		t.Fatalf("order-dependent accounting: forward %d/%d, backward %d/%d",
			forward.Applied, forward.Failed, backward.Applied, backward.Failed)
	}
}

func TestApplyAllEmptyBatch(t *testing.T) {
	result := cuts.ApplyAll(nil, 8, cuts.KindL, false)
	if result.Applied != 0 || result.Failed != 0 || len(result.Messages) != 0 {
		t.Fatalf("empty batch should be all zeroes: %+v", result)
	}
}
