package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

// ParseCSV reads a diet dataset in CSV form.
func ParseCSV(r io.Reader, opts ParseOptions) ([]analytics.Recipe, ParseReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows, opts)
}

// ParseXLSX reads the first worksheet of an Excel workbook.
func ParseXLSX(r io.Reader, opts ParseOptions) ([]analytics.Recipe, ParseReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ParseReport{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows, opts)
}

// Parse dispatches on the file name extension.
func Parse(name string, data []byte, opts ParseOptions) ([]analytics.Recipe, ParseReport, error) {
	if isExcel(name) {
		return ParseXLSX(bytes.NewReader(data), opts)
	}
	return ParseCSV(bytes.NewReader(data), opts)
}

// WriteCSV writes records with the dataset header.
func WriteCSV(w io.Writer, recipes []analytics.Recipe) error {
	cw := csv.NewWriter(w)
	header := []string{"Diet_type", "Recipe_name", "Cuisine_type", "Protein(g)", "Carbs(g)", "Fat(g)"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range recipes {
		row := []string{
			r.DietType,
			r.Name,
			r.CuisineType,
			strconv.FormatFloat(r.Protein, 'f', -1, 64),
			strconv.FormatFloat(r.Carbs, 'f', -1, 64),
			strconv.FormatFloat(r.Fat, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
