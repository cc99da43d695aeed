// Command leo-filter runs the catalog pipeline once: fetch (or read) a
// two-line element catalog, keep the records whose perigee altitude and
// name match the predicates, and write the survivors to a timestamped
// text file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/signalsfoundry/leo-catalog/core"
	"github.com/signalsfoundry/leo-catalog/internal/config"
	"github.com/signalsfoundry/leo-catalog/internal/export"
	"github.com/signalsfoundry/leo-catalog/internal/fetch"
	"github.com/signalsfoundry/leo-catalog/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $LEO_CATALOG_CONFIG, then ./leo-catalog.yaml)")
	group := flag.String("group", "", "catalog group to fetch, e.g. active, stations, starlink")
	rawURL := flag.String("url", "", "full catalog URL; overrides -group")
	inPath := flag.String("in", "", "read the catalog from a local file instead of fetching")
	maxPerigee := flag.Float64("max-perigee-km", 0, "keep records whose perigee altitude is at or below this many km")
	name := flag.String("name", "", "keep only records whose name contains this substring (case-insensitive)")
	basename := flag.String("basename", "", "output filename prefix")
	outDir := flag.String("out", "", "directory the output file is written to")
	listGroups := flag.Bool("list-groups", false, "print the known catalog groups and exit")
	flag.Parse()

	if *listGroups {
		fmt.Println(strings.Join(fetch.KnownGroups, "\n"))
		return
	}

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load config", logging.String("error", err.Error()))
		os.Exit(1)
	}
	applyFlags(cfg, *group, *rawURL, *maxPerigee, *name, *basename, *outDir)

	raw, source, err := loadCatalog(ctx, cfg, *inPath, log)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logging.String("source", source), logging.String("error", err.Error()))
		os.Exit(1)
	}

	records := core.ParseCatalog(raw)
	result := core.Filter(records, cfg.Filter.MaxPerigeeKm, cfg.Filter.NameContains)

	artifact := export.BuildArtifact(cfg.Export.Basename, time.Now(), result)
	path, err := export.WriteFile(cfg.Export.Dir, artifact)
	if err != nil {
		log.Error(ctx, "failed to write output", logging.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Fetched %d records from %s\n", result.Total, source)
	fmt.Printf("Saved %d matching records to %s\n", result.Matches(), path)
	if n := result.Excluded(); n > 0 {
		fmt.Printf("Skipped %d records (%d malformed, %d with invalid elements)\n",
			n, result.ExcludedMalformed, result.ExcludedInvalid)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

// applyFlags layers non-empty flag values over the config file.
func applyFlags(cfg *config.Config, group, rawURL string, maxPerigee float64, name, basename, outDir string) {
	if rawURL != "" {
		cfg.Source.URL = rawURL
		cfg.Source.Group = ""
	} else if group != "" {
		cfg.Source.Group = group
		cfg.Source.URL = ""
	}
	if maxPerigee > 0 {
		cfg.Filter.MaxPerigeeKm = maxPerigee
	}
	if name != "" {
		cfg.Filter.NameContains = name
	}
	if basename != "" {
		cfg.Export.Basename = basename
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}
}

// loadCatalog returns the raw catalog text and a label for where it came from.
func loadCatalog(ctx context.Context, cfg *config.Config, inPath string, log logging.Logger) (string, string, error) {
	if inPath != "" {
		data, err := os.ReadFile(inPath)
		return string(data), inPath, err
	}

	client := fetch.New(
		fetch.WithTimeout(cfg.Source.Timeout()),
		fetch.WithLogger(log),
	)
	if cfg.Source.URL != "" {
		raw, err := client.FetchURL(ctx, cfg.Source.URL)
		return raw, cfg.Source.URL, err
	}
	raw, err := client.FetchGroup(ctx, cfg.Source.Group)
	return raw, cfg.Source.Group, err
}
