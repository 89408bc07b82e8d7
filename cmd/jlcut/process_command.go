package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jlcut/internal/cuts"
	"jlcut/internal/history"
	"jlcut/internal/logging"
	"jlcut/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		cutType   string
		offset    int
		maxGap    int
		dryRun    bool
		outputDir string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "process <archive.drp>",
		Short: "Apply J-cuts or L-cuts to a project archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			kind, err := cuts.ParseKind(cutType)
			if err != nil {
				return err
			}

			var recorder pipeline.Recorder
			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer store.Close()
				recorder = store
			}

			proc := pipeline.New(cfg, logging.NewNop(), recorder)
			report, err := proc.Run(cmd.Context(), pipeline.Request{
				ArchivePath: args[0],
				Kind:        kind,
				Offset:      offset,
				MaxGap:      maxGap,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, report, verbose)

			if report.Output == nil {
				return nil
			}
			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				dir = cfg.Paths.OutputDir
			}
			target := filepath.Join(dir, report.OutputName)
			if err := os.WriteFile(target, report.Output, 0o644); err != nil {
				return fmt.Errorf("write output archive: %w", err)
			}
			fmt.Fprintf(out, "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cutType, "cut", "t", "J", "Cut type to apply, J or L")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Audio offset in frames (0 uses the configured default)")
	cmd.Flags().IntVar(&maxGap, "max-gap", 0, "Maximum frame gap between clips at a boundary (0 uses the configured default)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Analyze without writing an output archive")
	cmd.Flags().StringVarP(&outputDir, "output", "O", "", "Directory for the output archive (defaults to the configured output dir)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print per-boundary messages")
	return cmd
}

func printReport(out io.Writer, report *pipeline.Report, verbose bool) {
	rows := make([][]string, 0, len(report.Timelines))
	for _, tl := range report.Timelines {
		rows = append(rows, []string{
			tl.Document,
			fmt.Sprintf("%d", tl.Pairs),
			fmt.Sprintf("%d", tl.Boundaries),
			fmt.Sprintf("%d", tl.Applied),
			fmt.Sprintf("%d", tl.Failed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Timeline", "Pairs", "Boundaries", "Applied", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Cut type %s, offset %d frames, status %s\n", report.Kind, report.Offset, report.Status)

	if verbose {
		for _, tl := range report.Timelines {
			for _, msg := range tl.Messages {
				fmt.Fprintf(out, "  %s: %s\n", tl.Document, msg)
			}
		}
	}
}
