package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/gridview/internal/model"
	"github.com/specialistvlad/gridview/internal/table"
	"github.com/specialistvlad/gridview/internal/value"
	"github.com/specialistvlad/gridview/plugins/paginate"
	"github.com/specialistvlad/gridview/plugins/selection"
)

// Render writes the header rows, the current page and the footer rows of tbl
// as tab-aligned text, followed by a summary line. Group header cells fill
// their first slot and leave the rest of their span blank. Sub rows are
// indented by depth. The first column marks selected rows with "*".
func Render(w io.Writer, tbl *table.Table[Item]) error {
	headerRows, err := tbl.HeaderRows().Get()
	if err != nil {
		return err
	}
	pageRows, err := tbl.PageRows().Get()
	if err != nil {
		return err
	}
	footerRows, err := tbl.FooterRows().Get()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range headerRows {
		line, err := headerLine(row, (*model.HeaderCell[Item]).Render)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, line)
	}
	for _, row := range pageRows {
		line, err := bodyLine(row)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, line)
	}
	for _, row := range footerRows {
		line, err := headerLine(row, (*model.HeaderCell[Item]).RenderFooter)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary, err := summaryLine(tbl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, summary)
	return err
}

func headerLine(row *model.HeaderRow[Item], render func(*model.HeaderCell[Item]) (any, error)) (string, error) {
	fields := []string{""}
	for _, cell := range row.Cells {
		label, err := render(cell)
		if err != nil {
			return "", err
		}
		fields = append(fields, value.String(label))
		for range cell.Colspan - 1 {
			fields = append(fields, "")
		}
	}
	return strings.Join(fields, "\t"), nil
}

func bodyLine(row *model.BodyRow[Item]) (string, error) {
	marker := ""
	if props, err := row.Props().Get(); err == nil {
		if p, ok := props[PluginSelect].(selection.BodyRowProps); ok && p.Selected {
			marker = "*"
		}
	}
	fields := make([]string, 0, len(row.Cells)+1)
	fields = append(fields, marker)
	for i, cell := range row.Cells {
		v, err := cell.Render()
		if err != nil {
			return "", err
		}
		text := value.String(v)
		if i == 0 {
			text = strings.Repeat("  ", row.Depth) + text
		}
		fields = append(fields, text)
	}
	return strings.Join(fields, "\t"), nil
}

func summaryLine(tbl *table.Table[Item]) (string, error) {
	rows, err := tbl.Rows().Get()
	if err != nil {
		return "", err
	}
	summary := fmt.Sprintf("%d rows", len(rows))
	if page, ok := table.PluginState[*paginate.State](tbl, PluginPage); ok {
		count, err := page.PageCount.Get()
		if err != nil {
			return "", err
		}
		summary += fmt.Sprintf(", page %d of %d", page.PageIndex.Value()+1, count)
	}
	return summary, nil
}
