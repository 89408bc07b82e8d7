package timeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jlcut/internal/logging"
)

// SeqContainerDir is the archive directory holding timeline documents.
const SeqContainerDir = "SeqContainer"

// Locate finds every timeline document under the unpacked project tree.
// Only .xml members of SeqContainer/ whose root element is a sequence
// container qualify; files that fail to parse are logged and skipped.
// Results are sorted by file name so runs are deterministic.
func Locate(root string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	seqDir := filepath.Join(root, SeqContainerDir)
	entries, err := os.ReadDir(seqDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			continue
		}
		path := filepath.Join(seqDir, entry.Name())
		if _, err := LoadFile(path); err != nil {
			logger.Warn("skipping non-timeline document",
				logging.String("path", entry.Name()),
				logging.Error(err),
			)
			continue
		}
		found = append(found, path)
	}

	sort.Strings(found)
	return found, nil
}
