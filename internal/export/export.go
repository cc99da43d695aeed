// Package export packages a filter run into a downloadable text artifact.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signalsfoundry/leo-catalog/core"
)

// DefaultBasename is used when the caller does not name the artifact.
const DefaultBasename = "LEO_only"

// timestampLayout matches the historical export naming: YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// Artifact is a fully rendered export: the text blob plus the metadata the
// presentation layer needs to offer it as a download.
type Artifact struct {
	Filename    string
	GeneratedAt time.Time
	Content     string

	Total    int // records in the source catalog
	Matched  int // records in the exported subset
	Excluded int // records dropped due to per-record errors
}

// BuildArtifact renders the filtered set into its three-line textual form
// and stamps a filename of the form <basename>_<UTC timestamp>.txt.
func BuildArtifact(basename string, generatedAt time.Time, result core.FilterResult) Artifact {
	if basename == "" {
		basename = DefaultBasename
	}
	generatedAt = generatedAt.UTC()

	return Artifact{
		Filename:    fmt.Sprintf("%s_%s.txt", basename, generatedAt.Format(timestampLayout)),
		GeneratedAt: generatedAt,
		Content:     core.FormatCatalog(result.Matched),
		Total:       result.Total,
		Matched:     result.Matches(),
		Excluded:    result.Excluded(),
	}
}

// WriteFile writes the artifact under dir and returns the full path.
func WriteFile(dir string, a Artifact) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
		return "", fmt.Errorf("write export artifact: %w", err)
	}
	return path, nil
}
