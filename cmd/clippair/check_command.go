package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clippair/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the catalogue, output, policy, and state directory are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status := newStatusPrinter(cmd.OutOrStdout())
			status.section("Preflight")
			if ctx.configPath != "" {
				status.line("Config", statusInfo, ctx.configPath)
			}

			results := preflight.RunAll(cfg)
			for _, r := range results {
				status.line(r.Name, checkStatus(r), r.Detail)
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}

func checkStatus(r preflight.Result) statusKind {
	switch {
	case !r.Passed:
		return statusError
	case r.Advisory:
		return statusWarn
	default:
		return statusOK
	}
}
