package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"jlcut/internal/history"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded processing runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsPruneCommand(ctx))
	return runsCmd
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled in the configuration")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			colorize := ctx.colorEnabled() && shouldColorize(out)
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Source,
					run.CutKind,
					strconv.Itoa(run.Offset),
					statusLabel(run.Status, colorize),
					fmt.Sprintf("%d/%d", run.Applied, run.Boundaries),
					run.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Source", "Cut", "Offset", "Status", "Applied", "When"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to list")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:        %s\n", run.ID)
			fmt.Fprintf(out, "Source:     %s\n", run.Source)
			fmt.Fprintf(out, "Cut type:   %s\n", run.CutKind)
			fmt.Fprintf(out, "Offset:     %d frames\n", run.Offset)
			fmt.Fprintf(out, "Dry run:    %t\n", run.DryRun)
			fmt.Fprintf(out, "Timelines:  %d\n", run.Timelines)
			fmt.Fprintf(out, "Boundaries: %d\n", run.Boundaries)
			fmt.Fprintf(out, "Applied:    %d\n", run.Applied)
			fmt.Fprintf(out, "Failed:     %d\n", run.Failed)
			fmt.Fprintf(out, "Status:     %s\n", run.Status)
			fmt.Fprintf(out, "When:       %s\n", run.CreatedAt.Local().Format(time.DateTime))
			return nil
		},
	}
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			retention := days
			if retention <= 0 {
				cfg, _ := ctx.ensureConfig()
				retention = cfg.History.RetentionDays
			}
			if retention <= 0 {
				return fmt.Errorf("no retention window configured, pass --days")
			}
			removed, err := store.Prune(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs older than %d days\n", removed, retention)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (0 uses the configured value)")
	return cmd
}

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func statusLabel(status string, colorize bool) string {
	if !colorize {
		return status
	}
	switch status {
	case history.StatusApplied:
		return ansiGreen + status + ansiReset
	case history.StatusNoCuts:
		return ansiRed + status + ansiReset
	default:
		return ansiYellow + status + ansiReset
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
