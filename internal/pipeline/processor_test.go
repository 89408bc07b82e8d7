package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jlcut/internal/cuts"
	"jlcut/internal/history"
	"jlcut/internal/logging"
	"jlcut/internal/testsupport"
	"jlcut/internal/timeline"
)

func twoClipTimeline(t *testing.T) []byte {
	t.Helper()
	video, audio := testsupport.AlignedClips(
		testsupport.ClipSpec{Name: "intro", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "outro", MediaRef: "m2", Start: 100, Duration: 100, In: 20},
	)
	return testsupport.SequenceXML(t, video, audio)
}

func TestRunAppliesJCuts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
		Offset:      8,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != history.StatusApplied {
		t.Fatalf("status = %q, want %q", report.Status, history.StatusApplied)
	}
	if report.Boundaries != 1 || report.Applied != 1 || report.Failed != 0 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/0", report.Boundaries, report.Applied, report.Failed)
	}
	if report.OutputName != "wedding (J cuts added).drp" {
		t.Fatalf("output name = %q", report.OutputName)
	}
	if len(report.Output) == 0 {
		t.Fatal("expected rewritten archive bytes")
	}
	if len(report.Timelines) != 1 || report.Timelines[0].Pairs != 2 {
		t.Fatalf("timeline reports = %+v", report.Timelines)
	}
}

func TestRunRewritesOnlyTimelineMembers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})
	original, err := os.ReadFile(archive)
	if err != nil {
		t.Fatal(err)
	}

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
		Offset:      8,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	srcMembers := readMembers(t, original)
	outMembers := readMembers(t, report.Output)
	for name, content := range srcMembers {
		if name == "SeqContainer/edit.xml" {
			if bytes.Equal(outMembers[name], content) {
				t.Fatal("timeline member was not rewritten")
			}
			continue
		}
		if !bytes.Equal(outMembers[name], content) {
			t.Fatalf("member %q changed", name)
		}
	}

	doc, err := timeline.Parse("edit.xml", outMembers["SeqContainer/edit.xml"])
	if err != nil {
		t.Fatalf("parse rewritten timeline: %v", err)
	}
	audio := doc.AudioClips()
	if got := audio[1].FrameValue("Start", -1); got != 92 {
		t.Fatalf("audio Start = %d, want 92", got)
	}
	if got := audio[1].FrameValue("Duration", -1); got != 108 {
		t.Fatalf("audio Duration = %d, want 108", got)
	}
	if got := audio[1].FrameValue("In", -1); got != 12 {
		t.Fatalf("audio In = %d, want 12", got)
	}
}

func TestRunDryRunProducesNoOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindL,
		Offset:      8,
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != history.StatusDryRun {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Applied != 1 {
		t.Fatalf("applied = %d, want 1", report.Applied)
	}
	if report.Output != nil || report.OutputName != "" {
		t.Fatal("dry run must not produce an output archive")
	}
}

func TestRunNoBoundaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	video, audio := testsupport.AlignedClips(
		testsupport.ClipSpec{Name: "solo", MediaRef: "m1", Start: 0, Duration: 50, In: 0},
	)
	archive := testsupport.ProjectArchive(t, dir, "solo.drp", map[string][]byte{
		"edit.xml": testsupport.SequenceXML(t, video, audio),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
		Offset:      8,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != history.StatusNoBoundaries {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Output != nil {
		t.Fatal("expected no output archive")
	}
}

func TestRunNoCutsWhenEveryBoundaryFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	// In of 0 on the downstream clip makes the J-cut impossible at offset 8.
	archive := testsupport.ProjectArchive(t, dir, "tight.drp", map[string][]byte{
		"edit.xml": func() []byte {
			video, audio := testsupport.AlignedClips(
				testsupport.ClipSpec{Name: "a", MediaRef: "m1", Start: 0, Duration: 100, In: 0},
				testsupport.ClipSpec{Name: "b", MediaRef: "m2", Start: 100, Duration: 100, In: 0},
			)
			return testsupport.SequenceXML(t, video, audio)
		}(),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
		Offset:      8,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status != history.StatusNoCuts {
		t.Fatalf("status = %q", report.Status)
	}
	if report.Failed != 1 || report.Applied != 0 {
		t.Fatalf("counts = applied %d failed %d", report.Applied, report.Failed)
	}
	if report.Output != nil {
		t.Fatal("expected no output archive")
	}
}

func TestRunMultipleTimelines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "multi.drp", map[string][]byte{
		"a.xml": twoClipTimeline(t),
		"b.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindL,
		Offset:      4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Timelines) != 2 {
		t.Fatalf("timelines = %d, want 2", len(report.Timelines))
	}
	if report.Applied != 2 {
		t.Fatalf("applied = %d, want 2", report.Applied)
	}
	members := readMembers(t, report.Output)
	for _, name := range []string{"SeqContainer/a.xml", "SeqContainer/b.xml"} {
		if _, ok := members[name]; !ok {
			t.Fatalf("missing member %q", name)
		}
	}
}

func TestRunSkipsMalformedTimeline(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "mixed.drp", map[string][]byte{
		"good.xml":   twoClipTimeline(t),
		"broken.xml": []byte("<Sm2SequenceContainer><unclosed>"),
		"other.xml":  []byte("<SomeOtherRoot/>"),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
		Offset:      8,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Timelines) != 1 || report.Timelines[0].Document != "good.xml" {
		t.Fatalf("timelines = %+v", report.Timelines)
	}
	if report.Applied != 1 {
		t.Fatalf("applied = %d, want 1", report.Applied)
	}
}

func TestRunValidatesRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})
	p := New(cfg, logging.NewNop(), nil)

	cases := []struct {
		name string
		req  Request
	}{
		{"missing path", Request{Kind: cuts.KindJ, Offset: 8}},
		{"bad kind", Request{ArchivePath: archive, Kind: cuts.Kind("X"), Offset: 8}},
		{"offset too large", Request{ArchivePath: archive, Kind: cuts.KindJ, Offset: cfg.Limits.MaxOffset + 1}},
		{"negative offset", Request{ArchivePath: archive, Kind: cuts.KindJ, Offset: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := p.Run(context.Background(), tc.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRunDefaultsOffsetFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), nil)
	report, err := p.Run(context.Background(), Request{
		ArchivePath: archive,
		Kind:        cuts.KindJ,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Offset != cfg.Cuts.DefaultOffset {
		t.Fatalf("offset = %d, want config default %d", report.Offset, cfg.Cuts.DefaultOffset)
	}
}

func TestRunRejectsNonArchive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := filepath.Join(t.TempDir(), "junk.drp")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(cfg, logging.NewNop(), nil)
	if _, err := p.Run(context.Background(), Request{ArchivePath: path, Kind: cuts.KindJ, Offset: 8}); !errors.Is(err, ErrArchive) {
		t.Fatalf("err = %v, want ErrArchive", err)
	}
}

func TestRunCleansStagingDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), nil)
	if _, err := p.Run(context.Background(), Request{ArchivePath: archive, Kind: cuts.KindJ, Offset: 8}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging dir not cleaned, %d entries remain", len(entries))
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	dir := t.TempDir()
	archive := testsupport.ProjectArchive(t, dir, "wedding.drp", map[string][]byte{
		"edit.xml": twoClipTimeline(t),
	})

	p := New(cfg, logging.NewNop(), store)
	report, err := p.Run(context.Background(), Request{ArchivePath: archive, Kind: cuts.KindJ, Offset: 8})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	run, err := store.Describe(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if run.Status != history.StatusApplied || run.Applied != 1 || run.CutKind != "J" {
		t.Fatalf("recorded run = %+v", run)
	}
}

func readMembers(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	members := make(map[string][]byte)
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			members[file.Name] = nil
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open member %q: %v", file.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read member %q: %v", file.Name, err)
		}
		rc.Close()
		members[file.Name] = buf.Bytes()
	}
	return members
}
