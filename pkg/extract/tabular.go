package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"
)

func renderCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	return renderRows(rows), nil
}

func renderWorkbook(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	// First sheet only; the benchmark attachments keep their data there.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return renderRows(rows), nil
}

func renderRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var builder strings.Builder
	table := tablewriter.NewWriter(&builder)
	table.SetHeader(rows[0])
	table.SetAutoWrapText(false)
	if len(rows) > 1 {
		table.AppendBulk(rows[1:])
	}
	table.Render()

	return builder.String()
}
