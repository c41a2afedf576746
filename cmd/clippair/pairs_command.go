package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clippair/internal/pairfile"
	"clippair/internal/pairing"
	"clippair/internal/runlog"
)

func newPairsCommand(ctx *commandContext) *cobra.Command {
	pairsCmd := &cobra.Command{
		Use:   "pairs",
		Short: "Inspect generated pair lists",
	}
	pairsCmd.AddCommand(newPairsShowCommand(ctx))
	return pairsCmd
}

func newPairsShowCommand(ctx *commandContext) *cobra.Command {
	var path string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display a pair list and the run that produced it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Paths.Output
			}
			records, err := pairfile.Read(path)
			if err != nil {
				return err
			}
			shown := records
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			if asJSON {
				return emitPairsJSON(cmd, shown)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "%s contains no pairs\n", path)
				return nil
			}
			fmt.Fprintln(out, renderPairsTable(shown))
			if len(shown) < len(records) {
				fmt.Fprintf(out, "Showing %d of %d pairs\n", len(shown), len(records))
			} else {
				fmt.Fprintf(out, "%d pairs\n", len(records))
			}

			if run := producingRun(cmd, cfg.RunLogPath(), path); run != nil {
				fmt.Fprintf(out, "Produced by run %s (%s, %s)\n", run.ShortID(), run.Policy, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Pair list to read (default paths.output)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many pairs (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderPairsTable(records []pairing.Record) string {
	tbl := newInspectTable(rightCol("ID"), leftCol("Left"), leftCol("Right"), leftCol("Description"))
	for _, r := range records {
		tbl.add(r.PairID, r.LeftClip, r.RightClip, r.Description)
	}
	return tbl.render()
}

// producingRun looks the file's digest up in the ledger. A missing ledger or
// unmatched digest yields nil.
func producingRun(cmd *cobra.Command, ledgerPath, path string) *runlog.Run {
	if _, err := os.Stat(ledgerPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	digest, err := pairfile.Digest(path)
	if err != nil {
		return nil
	}
	store, err := runlog.OpenPath(ledgerPath)
	if err != nil {
		return nil
	}
	defer store.Close()
	runs, err := store.FindByDigest(cmd.Context(), digest)
	if err != nil || len(runs) == 0 {
		return nil
	}
	return &runs[0]
}
