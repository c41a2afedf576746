package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clippair/internal/catalogue"
)

func newCatalogueCommand(ctx *commandContext) *cobra.Command {
	catalogueCmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Inspect clip catalogues",
	}
	catalogueCmd.AddCommand(newCatalogueStatsCommand(ctx))
	return catalogueCmd
}

type scopeJSON struct {
	Scenario string `json:"scenario"`
	Variant  string `json:"variant"`
	Agents   int    `json:"agents"`
	Routes   int    `json:"routes"`
	Clips    int    `json:"clips"`

	DurationS float64 `json:"duration_s"`
	Timed     int     `json:"timed_clips"`

	MinFPS float64 `json:"min_fps"`
	MaxFPS float64 `json:"max_fps"`
}

type catalogueStatsJSON struct {
	Path               string              `json:"path"`
	Entries            int                 `json:"entries"`
	Scopes             []scopeJSON         `json:"scopes"`
	DuplicateAddresses []catalogue.Address `json:"duplicate_addresses"`
}

func newCatalogueStatsCommand(ctx *commandContext) *cobra.Command {
	var path string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a catalogue by scenario and variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Paths.Catalogue
			}
			entries, err := catalogue.Load(path)
			if err != nil {
				return err
			}
			summaries := catalogue.Summarize(entries)
			duplicates := catalogue.DuplicateAddresses(entries)

			if asJSON {
				scopes := make([]scopeJSON, 0, len(summaries))
				for _, s := range summaries {
					scopes = append(scopes, scopeJSON(s))
				}
				if duplicates == nil {
					duplicates = []catalogue.Address{}
				}
				return emitJSON(cmd, catalogueStatsJSON{
					Path:               path,
					Entries:            len(entries),
					Scopes:             scopes,
					DuplicateAddresses: duplicates,
				})
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Catalogue %s is empty\n", path)
				return nil
			}
			tbl := newInspectTable(
				leftCol("Scenario"), leftCol("Variant"),
				rightCol("Agents"), rightCol("Routes"), rightCol("Clips"),
				rightCol("Duration"), rightCol("FPS"),
			)
			clips := 0
			for _, s := range summaries {
				tbl.add(
					s.Scenario,
					s.Variant,
					strconv.Itoa(s.Agents),
					strconv.Itoa(s.Routes),
					strconv.Itoa(s.Clips),
					formatScopeDuration(s),
					formatFrameRates(s.MinFPS, s.MaxFPS),
				)
				clips += s.Clips
			}
			tbl.total("Total", "", "", "", strconv.Itoa(clips))
			fmt.Fprintln(out, tbl.render())
			fmt.Fprintf(out, "%d entries in %d scopes\n", len(entries), len(summaries))
			if len(duplicates) > 0 {
				fmt.Fprintf(out, "%d addresses are held by more than one entry; see --on-collision\n", len(duplicates))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "catalogue", "", "Catalogue JSON file (default paths.catalogue)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// formatScopeDuration renders the summed clip duration, noting clips that
// carried no duration_s.
func formatScopeDuration(s catalogue.ScopeSummary) string {
	if s.Timed == 0 {
		return "-"
	}
	text := (time.Duration(s.DurationS * float64(time.Second))).Round(time.Second).String()
	if s.Timed < s.Clips {
		text += fmt.Sprintf(" (%d/%d)", s.Timed, s.Clips)
	}
	return text
}

func formatFrameRates(minFPS, maxFPS float64) string {
	switch {
	case maxFPS == 0:
		return "-"
	case minFPS == maxFPS:
		return strconv.FormatFloat(minFPS, 'f', -1, 64)
	default:
		return strconv.FormatFloat(minFPS, 'f', -1, 64) + "-" + strconv.FormatFloat(maxFPS, 'f', -1, 64)
	}
}
