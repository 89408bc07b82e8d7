package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jlcut/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Staging dir:    %s\n", cfg.Paths.StagingDir)
			fmt.Fprintf(out, "Output dir:     %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "Log dir:        %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "API bind:       %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "Upload limit:   %d bytes\n", cfg.Limits.MaxUploadBytes)
			fmt.Fprintf(out, "Extract limit:  %d bytes\n", cfg.Limits.MaxExtractedBytes)
			fmt.Fprintf(out, "Max offset:     %d frames\n", cfg.Limits.MaxOffset)
			fmt.Fprintf(out, "Rate limit:     %d requests/hour\n", cfg.Limits.RequestsPerHour)
			fmt.Fprintf(out, "Max gap:        %d frames\n", cfg.Cuts.MaxGap)
			fmt.Fprintf(out, "Default offset: %d frames\n", cfg.Cuts.DefaultOffset)
			fmt.Fprintf(out, "History:        enabled=%t retention=%d days\n", cfg.History.Enabled, cfg.History.RetentionDays)
			fmt.Fprintf(out, "Logging:        %s at %s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if err := config.WriteSample(target, overwrite); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}
