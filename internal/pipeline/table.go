package pipeline

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forPelevin/beatcut/internal/types"
)

func renderEditTable(m types.Manifest) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Clip", "Start", "End", "Beats"})
	for _, s := range m.Selections {
		tw.AppendRow(table.Row{
			s.ID,
			s.Clip,
			fmt.Sprintf("%.1f", s.StartSec),
			fmt.Sprintf("%.1f", s.EndSec),
			s.Beats,
		})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d clips", len(m.Selections)), "", fmt.Sprintf("%.1fs", m.TotalSec), ""})

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for _, n := range []int{3, 4, 5} {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
