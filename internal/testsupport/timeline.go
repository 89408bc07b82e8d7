package testsupport

import (
	"fmt"
	"strings"
	"testing"
)

// ClipSpec describes one clip item in a generated timeline fixture.
type ClipSpec struct {
	Name     string
	MediaRef string
	Start    int
	Duration int
	In       int
	// Raw overrides property text verbatim, and may add properties the
	// numeric fields do not cover. A value of "-" omits the property.
	Raw map[string]string
}

// AlignedClips returns matching video and audio clip specs for the given
// placements, the common case in boundary tests.
func AlignedClips(specs ...ClipSpec) ([]ClipSpec, []ClipSpec) {
	video := append([]ClipSpec(nil), specs...)
	audio := append([]ClipSpec(nil), specs...)
	return video, audio
}

// SequenceXML renders a minimal sequence container document with one video
// and one audio track holding the given clips.
func SequenceXML(t testing.TB, video, audio []ClipSpec) []byte {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<Sm2SequenceContainer>\n")
	writeTrackVec(&b, "VideoTrackVec", "Sm2TiVideoClip", video)
	writeTrackVec(&b, "AudioTrackVec", "Sm2TiAudioClip", audio)
	b.WriteString("</Sm2SequenceContainer>\n")
	return []byte(b.String())
}

func writeTrackVec(b *strings.Builder, vecTag, clipTag string, clips []ClipSpec) {
	fmt.Fprintf(b, "  <%s>\n    <Element>\n      <Sm2TiTrack>\n        <Items>\n", vecTag)
	for _, clip := range clips {
		fmt.Fprintf(b, "          <Element>\n            <%s>\n", clipTag)
		writeProp(b, clip, "Name", clip.Name)
		writeProp(b, clip, "MediaRef", clip.MediaRef)
		writeProp(b, clip, "Start", fmt.Sprintf("%d", clip.Start))
		writeProp(b, clip, "Duration", fmt.Sprintf("%d", clip.Duration))
		writeProp(b, clip, "In", fmt.Sprintf("%d", clip.In))
		fmt.Fprintf(b, "            </%s>\n          </Element>\n", clipTag)
	}
	fmt.Fprintf(b, "        </Items>\n      </Sm2TiTrack>\n    </Element>\n  </%s>\n", vecTag)
}

func writeProp(b *strings.Builder, clip ClipSpec, name, value string) {
	if raw, ok := clip.Raw[name]; ok {
		if raw == "-" {
			return
		}
		value = raw
	}
	fmt.Fprintf(b, "              <%s>%s</%s>\n", name, value, name)
}
