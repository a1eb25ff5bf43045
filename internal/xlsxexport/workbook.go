// Package xlsxexport renders adoption records as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"adoptions/internal/csvexport"
	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
)

const (
	SheetAdoptions = "Adoptions"
	SheetGroups    = "Groups"
)

var groupColumns = []string{
	"Institution",
	"Degree Class",
	"Subject",
	"Degree Program",
	"Instructor",
	"Records",
	"Principal Title",
	"Principal Publisher",
	"Titles",
}

// Build returns an xlsx workbook with one row per adopted text and a sheet of
// grouped courses.
func Build(records []domain.AdoptionRecord, groupBy domain.GroupBy) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAdoptions); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetGroups); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(SheetAdoptions)
	f.SetActiveSheet(activeIndex)

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	row := 1
	writeRow(f, SheetAdoptions, row, csvexport.Columns)
	for i := range records {
		for _, r := range csvexport.RecordRows(&records[i]) {
			row++
			writeRow(f, SheetAdoptions, row, r)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(csvexport.Columns))
	_ = f.SetCellStyle(SheetAdoptions, "A1", lastCol+"1", header)
	_ = f.SetColWidth(SheetAdoptions, "B", "E", 28)
	_ = f.SetColWidth(SheetAdoptions, "J", "L", 32)

	writeRow(f, SheetGroups, 1, groupColumns)
	for i, g := range dashboard.GroupRecords(records, groupBy) {
		titles := make([]string, 0, len(g.Texts))
		for _, t := range g.Texts {
			titles = append(titles, t.Title)
		}
		principalTitle, principalPublisher := "", ""
		if g.Principal != nil {
			principalTitle, principalPublisher = g.Principal.Title, g.Principal.Publisher
		}
		writeRow(f, SheetGroups, i+2, []any{
			g.Institution, g.DegreeClass, g.Subject, g.DegreeProgram, g.Instructor,
			g.RecordCount, principalTitle, principalPublisher, strings.Join(titles, "; "),
		})
	}
	lastCol, _ = excelize.ColumnNumberToName(len(groupColumns))
	_ = f.SetCellStyle(SheetGroups, "A1", lastCol+"1", header)
	_ = f.SetColWidth(SheetGroups, "A", "D", 28)
	_ = f.SetColWidth(SheetGroups, "I", "I", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
