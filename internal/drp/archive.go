package drp

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidArchive marks archives that fail structural validation: not a
// zip, unsafe member paths, oversized contents, or missing the project
// descriptor.
var ErrInvalidArchive = errors.New("invalid project archive")

// ProjectDescriptor is the archive member every project must carry.
const ProjectDescriptor = "project.xml"

// Validate checks an archive held in memory before anything is extracted:
// it must be a readable zip, contain no absolute or parent-traversing member
// paths, decompress to at most maxExtracted bytes, and include the project
// descriptor.
func Validate(data []byte, maxExtracted int64) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: not a zip archive: %v", ErrInvalidArchive, err)
	}
	return validateReader(reader, maxExtracted)
}

func validateReader(reader *zip.Reader, maxExtracted int64) error {
	var total int64
	hasDescriptor := false
	for _, file := range reader.File {
		if err := checkMemberPath(file.Name); err != nil {
			return err
		}
		total += int64(file.UncompressedSize64)
		if maxExtracted > 0 && total > maxExtracted {
			return fmt.Errorf("%w: extracted size exceeds %d bytes", ErrInvalidArchive, maxExtracted)
		}
		if file.Name == ProjectDescriptor {
			hasDescriptor = true
		}
	}
	if !hasDescriptor {
		return fmt.Errorf("%w: missing %s", ErrInvalidArchive, ProjectDescriptor)
	}
	return nil
}

func checkMemberPath(name string) error {
	if strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: unsafe member path %q", ErrInvalidArchive, name)
	}
	return nil
}

// Unpack validates the archive at path and extracts it into destDir, which
// is created if needed.
func Unpack(path, destDir string, maxExtracted int64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	return UnpackBytes(data, destDir, maxExtracted)
}

// UnpackBytes is Unpack over an archive already held in memory.
func UnpackBytes(data []byte, destDir string, maxExtracted int64) error {
	if err := Validate(data, maxExtracted); err != nil {
		return err
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: not a zip archive: %v", ErrInvalidArchive, err)
	}

	for _, file := range reader.File {
		target := filepath.Join(destDir, filepath.FromSlash(file.Name))
		if strings.HasSuffix(file.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", file.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", file.Name, err)
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return nil
}

// Repack writes a new archive to outPath. Members named in rewritten are
// replaced with the provided contents; every other member is copied raw
// from the source archive so its bytes, compression, and checksum are
// untouched.
func Repack(srcPath string, rewritten map[string][]byte, outPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	out, err := RepackBytes(data, rewritten)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tempPath := outPath + ".tmp"
	if err := os.WriteFile(tempPath, out, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	if err := os.Rename(tempPath, outPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}

// RepackBytes is Repack with the source archive and result held in memory.
func RepackBytes(src []byte, rewritten map[string][]byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v", ErrInvalidArchive, err)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, file := range reader.File {
		content, replace := rewritten[file.Name]
		if !replace {
			if err := copyRaw(writer, file); err != nil {
				return nil, err
			}
			continue
		}
		header := &zip.FileHeader{
			Name:     file.Name,
			Method:   zip.Deflate,
			Modified: file.Modified,
		}
		w, err := writer.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("create member %s: %w", file.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("write member %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

func copyRaw(writer *zip.Writer, file *zip.File) error {
	rc, err := file.OpenRaw()
	if err != nil {
		return fmt.Errorf("open member %s: %w", file.Name, err)
	}
	header := file.FileHeader
	w, err := writer.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("copy member %s: %w", file.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy member %s: %w", file.Name, err)
	}
	return nil
}

// OutputName derives the processed archive's file name from the original,
// e.g. "wedding.drp" -> "wedding (J cuts added).drp".
func OutputName(original, kindToken string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	var suffix string
	switch strings.ToUpper(strings.TrimSpace(kindToken)) {
	case "J":
		suffix = " (J cuts added)"
	case "L":
		suffix = " (L cuts added)"
	default:
		suffix = " (modified)"
	}
	return base + suffix + ".drp"
}
