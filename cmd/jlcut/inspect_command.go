package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jlcut/internal/cuts"
	"jlcut/internal/logging"
	"jlcut/internal/pipeline"
)

// inspect runs the full analysis as a dry run and reports what process
// would do, without touching history or writing output.
func newInspectCommand(ctx *commandContext) *cobra.Command {
	var (
		cutType string
		offset  int
		maxGap  int
	)

	cmd := &cobra.Command{
		Use:   "inspect <archive.drp>",
		Short: "Show cut boundaries in a project archive without modifying it",
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

			proc := pipeline.New(cfg, logging.NewNop(), nil)
			report, err := proc.Run(cmd.Context(), pipeline.Request{
				ArchivePath: args[0],
				Kind:        kind,
				Offset:      offset,
				MaxGap:      maxGap,
				DryRun:      true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(report.Timelines))
			for _, tl := range report.Timelines {
				rows = append(rows, []string{
					tl.Document,
					fmt.Sprintf("%d", tl.VideoClips),
					fmt.Sprintf("%d", tl.AudioClips),
					fmt.Sprintf("%d", tl.Pairs),
					fmt.Sprintf("%d", tl.Boundaries),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Timeline", "Video", "Audio", "Pairs", "Boundaries"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))

			for _, tl := range report.Timelines {
				for _, msg := range tl.Messages {
					fmt.Fprintf(out, "  %s: %s\n", tl.Document, msg)
				}
			}
			fmt.Fprintf(out, "A %s-cut pass at offset %d would apply %d of %d boundaries\n",
				report.Kind, report.Offset, report.Applied, report.Boundaries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cutType, "cut", "t", "J", "Cut type to evaluate, J or L")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Audio offset in frames (0 uses the configured default)")
	cmd.Flags().IntVar(&maxGap, "max-gap", 0, "Maximum frame gap between clips at a boundary (0 uses the configured default)")
	return cmd
}
