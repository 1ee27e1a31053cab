package bench

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Render writes results to w as a text table
func Render(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Size", "Table", "Capacity", "Mean", "P95", "Max"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, res := range results {
		table.Append([]string{
			humanize.Comma(int64(res.Size)),
			res.Table,
			humanize.Comma(int64(res.Capacity)),
			strconv.FormatFloat(res.Mean, 'f', 3, 64),
			strconv.FormatFloat(res.P95, 'f', 0, 64),
			strconv.FormatFloat(res.Max, 'f', 0, 64),
		})
	}
	table.Render()
}
