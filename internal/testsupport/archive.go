package testsupport

import (
	"archive/zip"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"testing"
)

// ZipBytes builds a zip archive in memory from member name to content.
func ZipBytes(t testing.TB, members map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := f.Write(content); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive writes a zip archive to disk and returns its path.
func WriteArchive(t testing.TB, dir, name string, members map[string][]byte) string {
	t.Helper()

	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, ZipBytes(t, members), 0o644); err != nil {
		t.Fatalf("write archive %s: %v", dest, err)
	}
	return dest
}

// ProjectArchive builds a valid .drp layout: a project descriptor plus the
// given timeline documents under SeqContainer/.
func ProjectArchive(t testing.TB, dir, name string, timelines map[string][]byte) string {
	t.Helper()

	members := map[string][]byte{
		"project.xml":    []byte("<?xml version=\"1.0\"?>\n<SmProject><Name>fixture</Name></SmProject>\n"),
		"SeqContainer/":  nil,
		"Resources/logo": []byte("not xml at all"),
	}
	for file, content := range timelines {
		members[path.Join("SeqContainer", file)] = content
	}
	return WriteArchive(t, dir, name, members)
}
