package datasource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/specialistvlad/gridview/internal/ctxlog"
	"github.com/xuri/excelize/v2"
)

// xlsxLoader reads one sheet. The first row holds the field names; every
// following non-empty row is an item. Numeric cells become numbers.
type xlsxLoader struct {
	sheet string
}

func (l xlsxLoader) Load(ctx context.Context, path string) ([]Item, error) {
	logger := ctxlog.FromContext(ctx)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: spreadsheet has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return []Item{}, nil
	}

	header := rows[0]
	items := make([]Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item := make(Item, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			item[header[i]] = parseCell(cell)
		}
		if len(item) == 0 {
			continue
		}
		items = append(items, item)
	}
	logger.Debug("Spreadsheet read.", "sheet", sheet, "columns", len(header), "items", len(items))
	return items, nil
}

// parseCell returns int64 for integers, float64 for decimals, or s.
func parseCell(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
