package timeline_test

import (
	"strings"
	"testing"

	"jlcut/internal/testsupport"
	"jlcut/internal/timeline"
)

func TestParseExposesTrackClipsInOrder(t *testing.T) {
	video, audio := testsupport.AlignedClips(
		testsupport.ClipSpec{Name: "intro", MediaRef: "media-1", Start: 0, Duration: 100, In: 0},
		testsupport.ClipSpec{Name: "interview", MediaRef: "media-2", Start: 100, Duration: 250, In: 40},
	)
	doc, err := timeline.Parse("seq.xml", testsupport.SequenceXML(t, video, audio))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	vclips := doc.VideoClips()
	aclips := doc.AudioClips()
	if len(vclips) != 2 || len(aclips) != 2 {
		t.Fatalf("expected 2 clips per track, got %d video %d audio", len(vclips), len(aclips))
	}
	if vclips[0].Name() != "intro" || vclips[1].Name() != "interview" {
		t.Fatalf("unexpected clip order: %q, %q", vclips[0].Name(), vclips[1].Name())
	}
	if got := vclips[1].FrameValue("Start", 0); got != 100 {
		t.Fatalf("unexpected Start: %d", got)
	}
	if got := aclips[1].FrameValue("In", 0); got != 40 {
		t.Fatalf("unexpected In: %d", got)
	}
	if vclips[1].MediaRef() != "media-2" {
		t.Fatalf("unexpected MediaRef: %q", vclips[1].MediaRef())
	}
}

func TestParseRejectsWrongRoot(t *testing.T) {
	if _, err := timeline.Parse("other.xml", []byte("<SmProject/>")); err == nil {
		t.Fatal("expected error for non-sequence root")
	}
	if _, err := timeline.Parse("broken.xml", []byte("<unclosed")); err == nil {
		t.Fatal("expected error for malformed XML")
	}
}

func TestMissingTrackDegradesToEmptyClipList(t *testing.T) {
	doc, err := timeline.Parse("bare.xml", []byte("<Sm2SequenceContainer><Name>empty</Name></Sm2SequenceContainer>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clips := doc.VideoClips(); len(clips) != 0 {
		t.Fatalf("expected no video clips, got %d", len(clips))
	}
	if clips := doc.AudioClips(); len(clips) != 0 {
		t.Fatalf("expected no audio clips, got %d", len(clips))
	}
}

func TestMissingItemsContainerDegradesToEmptyClipList(t *testing.T) {
	data := []byte(`<Sm2SequenceContainer>
  <VideoTrackVec><Element><Sm2TiTrack></Sm2TiTrack></Element></VideoTrackVec>
</Sm2SequenceContainer>`)
	doc, err := timeline.Parse("no-items.xml", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if clips := doc.VideoClips(); len(clips) != 0 {
		t.Fatalf("expected no clips, got %d", len(clips))
	}
}

func TestFrameValueFallsBackOnMissingOrJunkText(t *testing.T) {
	video, audio := testsupport.AlignedClips(testsupport.ClipSpec{
		Name: "clip", MediaRef: "m", Start: 10, Duration: 20, In: 0,
		Raw: map[string]string{"Duration": "soon", "In": "-"},
	})
	doc, err := timeline.Parse("sparse.xml", testsupport.SequenceXML(t, video, audio))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clip := doc.VideoClips()[0]
	if got := clip.FrameValue("Duration", 0); got != 0 {
		t.Fatalf("junk Duration should fall back to 0, got %d", got)
	}
	if got := clip.FrameValue("In", 7); got != 7 {
		t.Fatalf("missing In should fall back to 7, got %d", got)
	}
	if got := clip.FrameValue("Start", 0); got != 10 {
		t.Fatalf("valid Start should parse, got %d", got)
	}
}

func TestSetPropOnlyUpdatesExistingProperties(t *testing.T) {
	video, audio := testsupport.AlignedClips(testsupport.ClipSpec{
		Name: "clip", MediaRef: "m", Start: 10, Duration: 20, In: 5,
		Raw: map[string]string{"In": "-"},
	})
	doc, err := timeline.Parse("seq.xml", testsupport.SequenceXML(t, video, audio))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clip := doc.AudioClips()[0]

	clip.SetFrameValue("Start", 2)
	clip.SetFrameValue("In", 99) // absent in source, must not be invented

	out, err := doc.WriteBytes()
	if err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "<Start>2</Start>") {
		t.Fatalf("serialized document missing updated Start: %s", text)
	}
	if strings.Contains(text, "99") {
		t.Fatalf("SetProp invented a property: %s", text)
	}
	if !strings.HasPrefix(text, "<?xml") {
		t.Fatalf("serialized document lost XML declaration: %s", text[:40])
	}
}
