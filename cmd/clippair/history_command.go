package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clippair/internal/pairfile"
	"clippair/internal/pairing"
	"clippair/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generate runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return emitJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			tbl := newInspectTable(
				leftCol("Run"), leftCol("Created"), leftCol("Policy"),
				rightCol("Entries"), rightCol("Pairs"), rightCol("Skipped"),
				leftCol("Output"),
			)
			for _, run := range runs {
				tbl.add(
					run.ShortID(),
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Policy,
					strconv.Itoa(run.Entries),
					strconv.Itoa(run.Pairs),
					strconv.Itoa(run.SkippedGroups),
					run.OutputPath,
				)
			}
			fmt.Fprintln(out, tbl.render())
			return nil
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs (0 for all)")
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run (a unique ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return emitJSON(cmd, run)
			}

			prefix := run.PathPrefix
			if prefix == "" {
				prefix = "(none)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:            %s\n", run.ID)
			fmt.Fprintf(out, "Created:        %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Policy:         %s\n", run.Policy)
			fmt.Fprintf(out, "Catalogue:      %s\n", run.CataloguePath)
			fmt.Fprintf(out, "Output:         %s\n", run.OutputPath)
			fmt.Fprintf(out, "Output SHA-256: %s\n", run.OutputSHA256)
			fmt.Fprintf(out, "Path prefix:    %s\n", prefix)
			fmt.Fprintf(out, "ID width:       %d\n", run.IDWidth)
			fmt.Fprintf(out, "Collisions via: %s\n", run.Collision)
			if run.Policy == string(pairing.PolicyBaseline) {
				fmt.Fprintf(out, "Pivots:         %s\n", formatPivots(run.Pivots))
			}
			if run.Policy == string(pairing.PolicyTournament) {
				fmt.Fprintf(out, "Sample size:    %d\n", run.SampleSize)
				fmt.Fprintf(out, "Seed:           %d\n", run.Seed)
			}
			fmt.Fprintf(out, "Entries:        %d\n", run.Entries)
			fmt.Fprintf(out, "Candidates:     %d\n", run.Candidates)
			fmt.Fprintf(out, "Pairs:          %d\n", run.Pairs)
			fmt.Fprintf(out, "Duplicates:     %d\n", run.Duplicates)
			fmt.Fprintf(out, "Skipped groups: %d\n", run.SkippedGroups)
			fmt.Fprintf(out, "Collisions:     %d\n", run.Collisions)
			fmt.Fprintf(out, "Output current: %s\n", yesNo(outputMatches(run)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// outputMatches reports whether the run's output file still holds the bytes
// the run wrote.
func outputMatches(run *runlog.Run) bool {
	digest, err := pairfile.Digest(run.OutputPath)
	if err != nil {
		return false
	}
	return digest == run.OutputSHA256
}

// formatPivots renders the override map as sorted variant=agent pairs.
func formatPivots(pivots map[string]string) string {
	if len(pivots) == 0 {
		return "(lexicographic default)"
	}
	parts := make([]string, 0, len(pivots))
	for _, variant := range slices.Sorted(maps.Keys(pivots)) {
		parts = append(parts, variant+"="+pivots[variant])
	}
	return strings.Join(parts, ", ")
}
