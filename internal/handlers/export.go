package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/models"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// table is a record set flattened to spreadsheet cells
type table struct {
	headers []string
	rows    [][]any
}

type column struct {
	name  string
	index []int
}

// columnsOf lists the json-tagged fields of t, flattening embedded structs
func columnsOf(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, columnsOf(f.Type, index)...)
			continue
		}
		if !f.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		cols = append(cols, column{name: name, index: index})
	}
	return cols
}

// cellValue converts a record field to a value excelize writes natively
func cellValue(v reflect.Value) any {
	switch x := v.Interface().(type) {
	case models.FlexString:
		return string(x)
	case models.FlexFloat:
		return float64(x)
	case models.FlexInt:
		return int64(x)
	case json.RawMessage:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func tabulate[T any](records []T) *table {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem(), nil)

	t := &table{
		headers: make([]string, len(cols)),
		rows:    make([][]any, 0, len(records)),
	}
	for i, c := range cols {
		t.headers[i] = c.name
	}

	for _, rec := range records {
		v := reflect.ValueOf(rec)
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = cellValue(v.FieldByIndex(c.index))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// workbook writes t to a single-sheet workbook with a styled header row
func workbook(sheetName string, t *table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range t.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for r, row := range t.rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

// ExportHandler streams filtered entity lists as XLSX workbooks
type ExportHandler struct {
	gateway  *gateway.Gateway
	entities map[string]Entity
	now      func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(gw *gateway.Gateway, entities []Entity) *ExportHandler {
	byPath := make(map[string]Entity, len(entities))
	for _, e := range entities {
		byPath[e.Path] = e
	}
	return &ExportHandler{gateway: gw, entities: byPath, now: time.Now}
}

// Export handles GET /api/{entity}/export. It accepts the same filters as the
// list route and writes every match, newest first.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entities[muxEntity(r)]
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Unknown entity")
		return
	}

	req := models.ListRequest{Action: ActionList, Filters: bindFilters(r, e.Filters)}
	t, err := e.collect(r.Context(), h.gateway, req)
	if err != nil {
		writeGatewayError(w, r, e.Remote, ActionList, err)
		return
	}

	f, err := workbook(e.Path, t)
	if err != nil {
		slog.Error("Failed to build workbook", "entity", e.Remote, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("%s_%s.xlsx", e.Path, h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if err := f.Write(w); err != nil {
		slog.Error("Failed to write workbook", "entity", e.Remote, "error", err)
		return
	}

	slog.Info("Entity exported", "entity", e.Remote, "rows", len(t.rows), "remote_addr", r.RemoteAddr)
}
