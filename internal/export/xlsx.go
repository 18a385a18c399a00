// Package export renders a resolved listing page as an XLSX workbook for
// retailer-facing downloads.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Row is one listing of an export, already classified.
type Row struct {
	ID            string
	Title         string
	StoreID       string
	CategoryID    string
	StartDate     string
	EndDate       string
	Status        string
	DaysRemaining *int
}

var columns = []string{"ID", "Title", "Store", "Category", "Start date", "End date", "Status", "Days remaining"}

// Workbook builds a single-sheet workbook named after the collection, one
// row per listing plus a bold header. The caller owns closing the file.
func Workbook(collection string, rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := collection
	if sheet == "" {
		sheet = "listings"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCol, headerStyle)
	}

	for i, row := range rows {
		days := interface{}(nil)
		if row.DaysRemaining != nil {
			days = *row.DaysRemaining
		}
		cells := []interface{}{
			row.ID,
			row.Title,
			row.StoreID,
			row.CategoryID,
			row.StartDate,
			row.EndDate,
			row.Status,
			days,
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row anchor: %w", err)
		}
		if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
