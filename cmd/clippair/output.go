package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"clippair/internal/pairfile"
	"clippair/internal/pairing"
)

// emitJSON writes v as two-space indented JSON on stdout; every --json flag
// shares this shape.
func emitJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}

// emitPairsJSON writes records byte-for-byte as generate stores them, so the
// output can be piped straight into another pair file.
func emitPairsJSON(cmd *cobra.Command, records []pairing.Record) error {
	data, err := pairfile.Encode(records)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

type column struct {
	title string
	align text.Align
}

func leftCol(title string) column  { return column{title: title, align: text.AlignLeft} }
func rightCol(title string) column { return column{title: title, align: text.AlignRight} }

// inspectTable is a rounded go-pretty table for the catalogue, pairs, and
// history listings. Short rows are padded; an optional footer carries totals.
type inspectTable struct {
	columns []column
	rows    []table.Row
	footer  table.Row
}

func newInspectTable(columns ...column) *inspectTable {
	return &inspectTable{columns: columns}
}

func (t *inspectTable) add(cells ...string) {
	t.rows = append(t.rows, t.row(cells))
}

func (t *inspectTable) total(cells ...string) {
	t.footer = t.row(cells)
}

func (t *inspectTable) row(cells []string) table.Row {
	r := make(table.Row, len(t.columns))
	for i := range r {
		r[i] = ""
		if i < len(cells) {
			r[i] = cells[i]
		}
	}
	return r
}

func (t *inspectTable) render() string {
	if len(t.columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.columns))
	configs := make([]table.ColumnConfig, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
			AlignFooter: c.align,
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(t.rows)
	if t.footer != nil {
		tw.AppendFooter(t.footer)
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
