// Package spreadsheet reads and writes xlsx workbooks for inventory and invoices.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	InvoiceSheet   = "Invoices"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrEmptyWorkbook = errors.New("workbook has no data rows")

// InventoryRow is one data row of an inventory sheet. Cells that could not be
// parsed are reported in Problems and leave their field nil.
type InventoryRow struct {
	Line          int
	Brand         string
	Name          string
	VolumeMl      *float64
	Quantity      *int
	PurchasePrice *float64
	SellingPrice  *float64
	Problems      []string
}

var inventoryHeaders = map[string]string{
	"brand":         "brand",
	"name":          "name",
	"product":       "name",
	"volumeml":      "volumeMl",
	"volume":        "volumeMl",
	"quantity":      "quantity",
	"qty":           "quantity",
	"purchaseprice": "purchasePrice",
	"sellingprice":  "sellingPrice",
	"price":         "sellingPrice",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if i := strings.Index(h, "("); i >= 0 {
		h = h[:i]
	}
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// ReadInventory parses the first sheet of an xlsx workbook. The first row
// holds headers; blank rows are skipped. At most maxRows data rows are read.
func ReadInventory(r io.Reader, maxRows int) ([]InventoryRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		if field, ok := inventoryHeaders[normalizeHeader(h)]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}
	for _, required := range []string{"brand", "name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	var out []InventoryRow
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		if len(out) == maxRows {
			return nil, fmt.Errorf("workbook has more than %d rows", maxRows)
		}
		out = append(out, parseInventoryRow(i+2, cells, columns))
	}
	if len(out) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return out, nil
}

func parseInventoryRow(line int, cells []string, columns map[string]int) InventoryRow {
	row := InventoryRow{Line: line}
	cell := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	number := func(field string) *float64 {
		raw := strings.ReplaceAll(cell(field), ",", "")
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			row.Problems = append(row.Problems, fmt.Sprintf("%s: %q is not a number", field, raw))
			return nil
		}
		return &v
	}

	row.Brand = cell("brand")
	row.Name = cell("name")
	row.VolumeMl = number("volumeMl")
	row.PurchasePrice = number("purchasePrice")
	row.SellingPrice = number("sellingPrice")
	if q := number("quantity"); q != nil {
		if *q != float64(int(*q)) {
			row.Problems = append(row.Problems, fmt.Sprintf("quantity: %v is not a whole number", *q))
		} else {
			n := int(*q)
			row.Quantity = &n
		}
	}
	return row
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteInventory writes items as a single-sheet workbook
func WriteInventory(w io.Writer, items []entity.InventoryItem) error {
	header := []any{"Brand", "Name", "Volume (ml)", "Quantity", "Purchase Price", "Selling Price", "Updated"}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{
			item.Brand,
			item.Name,
			item.VolumeMl,
			item.Quantity,
			optionalNumber(item.PurchasePrice),
			optionalNumber(item.SellingPrice),
			item.UpdatedAt.Format(time.DateTime),
		})
	}
	return writeSheet(w, InventorySheet, header, rows)
}

func writeSheet(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.Write(w)
}
