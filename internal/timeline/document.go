package timeline

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	// RootTag identifies a timeline document inside the project archive.
	RootTag = "Sm2SequenceContainer"

	videoTrackVecTag = "VideoTrackVec"
	audioTrackVecTag = "AudioTrackVec"
	trackTag         = "Sm2TiTrack"
	itemsTag         = "Items"
	elementTag       = "Element"
	videoClipTag     = "Sm2TiVideoClip"
	audioClipTag     = "Sm2TiAudioClip"
)

// Document is one parsed timeline sequence. It owns a mutable element tree;
// clip mutations made through Clip handles are visible when the document is
// serialized again.
type Document struct {
	Name string
	tree *etree.Document
}

// Parse reads a timeline document from raw XML. The root element must be a
// sequence container.
func Parse(name string, data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", name, err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("parse timeline %s: empty document", name)
	}
	if root.Tag != RootTag {
		return nil, fmt.Errorf("parse timeline %s: root element %q is not %s", name, root.Tag, RootTag)
	}
	return &Document{Name: name, tree: tree}, nil
}

// LoadFile parses the timeline document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	return Parse(path, data)
}

// WriteBytes serializes the document, including its XML declaration.
func (d *Document) WriteBytes() ([]byte, error) {
	data, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize timeline %s: %w", d.Name, err)
	}
	return data, nil
}

// WriteFile serializes the document back to path.
func (d *Document) WriteFile(path string) error {
	data, err := d.WriteBytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write timeline %s: %w", d.Name, err)
	}
	return nil
}

// VideoClips returns the ordered clip items on the first video track.
// A missing track or missing Items container yields an empty slice.
func (d *Document) VideoClips() []*Clip {
	return trackClips(d.firstTrack(videoTrackVecTag), videoClipTag)
}

// AudioClips returns the ordered clip items on the first audio track.
func (d *Document) AudioClips() []*Clip {
	return trackClips(d.firstTrack(audioTrackVecTag), audioClipTag)
}

func (d *Document) firstTrack(vecTag string) *etree.Element {
	root := d.tree.Root()
	if root == nil {
		return nil
	}
	vec := root.SelectElement(vecTag)
	if vec == nil {
		return nil
	}
	element := vec.SelectElement(elementTag)
	if element == nil {
		return nil
	}
	return element.SelectElement(trackTag)
}

func trackClips(track *etree.Element, clipTag string) []*Clip {
	if track == nil {
		return nil
	}
	items := track.SelectElement(itemsTag)
	if items == nil {
		return nil
	}
	var clips []*Clip
	for _, element := range items.SelectElements(elementTag) {
		node := element.SelectElement(clipTag)
		if node == nil {
			continue
		}
		clips = append(clips, &Clip{node: node})
	}
	return clips
}

// Clip is one placed media segment on a track. Timing properties are child
// elements holding frame counts as text.
type Clip struct {
	node *etree.Element
}

// Prop returns the text of the named property element, or "" when absent.
func (c *Clip) Prop(name string) string {
	element := c.node.SelectElement(name)
	if element == nil {
		return ""
	}
	return element.Text()
}

// SetProp updates an existing property element. Properties that do not
// already exist in the document are left alone: the writer never invents
// schema the source file did not carry.
func (c *Clip) SetProp(name, value string) {
	element := c.node.SelectElement(name)
	if element == nil {
		return
	}
	element.SetText(value)
}

// FrameValue parses the named property as a frame count. Missing, blank, or
// non-integer text yields fallback; clips with sparse properties stay usable
// rather than failing the whole timeline.
func (c *Clip) FrameValue(name string, fallback int) int {
	text := strings.TrimSpace(c.Prop(name))
	if text == "" {
		return fallback
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return fallback
	}
	return value
}

// SetFrameValue writes an integer frame count back to the named property.
func (c *Clip) SetFrameValue(name string, value int) {
	c.SetProp(name, strconv.Itoa(value))
}

// Name returns the clip's display name.
func (c *Clip) Name() string { return c.Prop("Name") }

// MediaRef returns the clip's source media identity.
func (c *Clip) MediaRef() string { return c.Prop("MediaRef") }
