package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/signalsfoundry/leo-catalog/core"
	"github.com/signalsfoundry/leo-catalog/internal/config"
	"github.com/signalsfoundry/leo-catalog/internal/export"
	"github.com/signalsfoundry/leo-catalog/internal/logging"
)

const sampleCatalog = "ISS (ZARYA)\n" +
	"1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990\n" +
	"2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760\n" +
	"GOES 16\n" +
	"1 41866U 16071A   21275.54545622  .00000092  00000-0  00000-0 0  9994\n" +
	"2 41866   0.0560 273.9844 0000905 254.7846 189.8731  1.00271735 17891\n"

// TestPipeline_LocalFile runs the full read -> parse -> filter -> write path
// the way the command does, against a catalog on disk.
func TestPipeline_LocalFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "catalog.txt")
	if err := os.WriteFile(in, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Export.Dir = dir

	raw, source, err := loadCatalog(context.Background(), cfg, in, logging.Noop())
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if source != in {
		t.Errorf("source = %q, want %q", source, in)
	}

	records := core.ParseCatalog(raw)
	result := core.Filter(records, cfg.Filter.MaxPerigeeKm, cfg.Filter.NameContains)
	if result.Total != 2 || result.Matches() != 1 {
		t.Fatalf("filter counts total=%d matched=%d, want 2/1", result.Total, result.Matches())
	}

	artifact := export.BuildArtifact(cfg.Export.Basename, time.Date(2021, 10, 2, 14, 11, 5, 0, time.UTC), result)
	path, err := export.WriteFile(cfg.Export.Dir, artifact)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ISS (ZARYA)") || strings.Contains(string(data), "GOES 16") {
		t.Errorf("output file should contain only the low-orbit record, got:\n%s", data)
	}
}

func TestApplyFlags_Precedence(t *testing.T) {
	cfg := config.Default()
	applyFlags(cfg, "starlink", "", 500, "star", "starlink_low", "/tmp/out")
	if cfg.Source.Group != "starlink" || cfg.Source.URL != "" {
		t.Errorf("group flag: got source %+v", cfg.Source)
	}
	if cfg.Filter.MaxPerigeeKm != 500 || cfg.Filter.NameContains != "star" {
		t.Errorf("filter flags: got %+v", cfg.Filter)
	}
	if cfg.Export.Basename != "starlink_low" || cfg.Export.Dir != "/tmp/out" {
		t.Errorf("export flags: got %+v", cfg.Export)
	}

	// A URL flag clears the group so the source is unambiguous.
	applyFlags(cfg, "", "https://example.com/catalog.txt", 0, "", "", "")
	if cfg.Source.URL != "https://example.com/catalog.txt" || cfg.Source.Group != "" {
		t.Errorf("url flag: got source %+v", cfg.Source)
	}
	// Zero-valued flags leave earlier settings alone.
	if cfg.Filter.MaxPerigeeKm != 500 {
		t.Errorf("zero flag overwrote threshold: %v", cfg.Filter.MaxPerigeeKm)
	}
}
