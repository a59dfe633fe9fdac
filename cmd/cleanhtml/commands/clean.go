package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/semaphore"

	"github.com/vpotap/CleanHTML/internal/config"
	"github.com/vpotap/CleanHTML/internal/logger"
	"github.com/vpotap/CleanHTML/internal/output"
	"github.com/vpotap/CleanHTML/pkg/cleanhtml"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [files...]",
	Short: "Run the full normalization pipeline",
	Long: `Clean normalizes each input through the full pipeline: raw-text
preprocessing, structural normalization, allowlist filtering and a second
normalization pass. With no file arguments it reads stdin.

Examples:
  cleanhtml clean page.html
  cleanhtml clean --links --table --format json *.html
  cat paste.html | cleanhtml clean --strip`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.Bool("images", false, "allow img elements with src and alt")
	flags.Bool("italics", false, "allow em and i elements")
	flags.Bool("links", false, "allow anchors with href and target")
	flags.Bool("table", false, "allow table, tr, td and th elements")
	flags.Bool("strip", false, "strip every tag (overrides all other options)")
	flags.StringP("format", "f", "html", "output format: html, json, yaml, markdown")
	flags.StringP("out", "o", "", "write output to file instead of stdout")
	flags.IntP("concurrency", "c", 4, "files cleaned concurrently")
	flags.Bool("stats", false, "include per-phase stats in structured output")

	for _, name := range []string{"images", "italics", "links", "table", "strip", "format", "concurrency", "stats"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cleaner := cleanhtml.New(&cleanhtml.Config{Options: cfg.Options()})

	records, err := cleanInputs(cmd.Context(), cleaner, cfg, args)
	if err != nil {
		return err
	}

	dest := cmd.OutOrStdout()
	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		dest = f
	}

	writer, err := output.NewWriter(dest, output.Format(cfg.Format))
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	return writer.Close()
}

// cleanInputs cleans stdin or the named files. Files are processed
// concurrently, bounded by the configured concurrency; records come back in
// argument order.
func cleanInputs(ctx context.Context, cleaner *cleanhtml.Cleaner, cfg config.Config, paths []string) ([]output.Record, error) {
	if len(paths) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		rec, err := cleanOne(cleaner, cfg, "stdin", string(raw))
		if err != nil {
			return nil, err
		}
		return []output.Record{rec}, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	sem := semaphore.NewWeighted(int64(cfg.Concurrency))
	records := make([]output.Record, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			raw, err := os.ReadFile(path)
			if err != nil {
				errs[i] = fmt.Errorf("reading %s: %w", path, err)
				return
			}
			records[i], errs[i] = cleanOne(cleaner, cfg, path, string(raw))
		}(i, path)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func cleanOne(cleaner *cleanhtml.Cleaner, cfg config.Config, source, raw string) (output.Record, error) {
	result := cleaner.CleanWithStats(raw)
	if result.Error != nil {
		return output.Record{}, fmt.Errorf("cleaning %s: %w", source, result.Error)
	}
	for _, w := range result.Warnings {
		logger.Warn("cleaning warning", "source", source, "warning", w.String())
	}
	logger.Debug("cleaned input",
		"source", source,
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes)

	rec := output.Record{Source: source, Content: result.Content, Warnings: result.Warnings}
	if cfg.Stats {
		rec.Stats = result.Stats
	}
	return rec, nil
}
