package bench

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

var _ Sink = (*TableSink)(nil)

// TableSink keeps the rows and renders them as a console table on close.
type TableSink struct {
	out  io.Writer
	rows [][]string
}

func NewTableSink(out io.Writer) *TableSink {
	return &TableSink{
		out:  out,
		rows: make([][]string, 0, 16),
	}
}

func (sink *TableSink) Write(rows []Row) error {
	for _, row := range rows {
		sink.rows = append(sink.rows, row.strings())
	}
	return nil
}

func (sink *TableSink) Close() error {
	if len(sink.rows) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(sink.out)
	table.SetHeader(csvHeader)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)
	table.AppendBulk(sink.rows)
	table.Render()
	sink.rows = sink.rows[:0]
	return nil
}
