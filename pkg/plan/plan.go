package plan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Operation represents a planned conversion of one source image.
type Operation struct {
	SourcePath      string // slash-separated, relative to the source root
	DestinationPath string
	TakenAt         time.Time
}

// Plan computes destination paths for the dated source files.
//
// Destinations mirror the source tree under destRoot with the extension
// replaced by .jpg. Sources absent from takenAt (no date was inferred from
// their name) are skipped. When two sources map to the same destination
// (a.png and a.jpeg both become a.jpg), a suffix _N is appended before the
// extension, where N starts at 1.
func Plan(destRoot string, sources []string, takenAt map[string]time.Time) []Operation {
	existing := make(map[string]bool)
	operations := make([]Operation, 0, len(sources))

	for _, src := range sources {
		t, ok := takenAt[src]
		if !ok {
			continue
		}

		operations = append(operations, Operation{
			SourcePath:      src,
			DestinationPath: resolveCollision(Destination(destRoot, src), existing),
			TakenAt:         t,
		})
	}

	return operations
}

// Destination mirrors relPath under destRoot with a .jpg extension.
func Destination(destRoot, relPath string) string {
	stem := strings.TrimSuffix(relPath, path.Ext(relPath))
	return filepath.Join(destRoot, filepath.FromSlash(stem+".jpg"))
}

// resolveCollision returns a unique destination path by appending _N before
// the extension if needed.
func resolveCollision(dest string, existing map[string]bool) string {
	if !existing[dest] {
		existing[dest] = true
		return dest
	}

	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !existing[candidate] {
			existing[candidate] = true
			return candidate
		}
	}
}
