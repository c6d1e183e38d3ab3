// =============================================================================
// Finance Reports - XLSX Statement Parser
// =============================================================================
//
// This module reads the bank statement workbook. The statement is a single
// table with one header row followed by one row per operation:
//
//   | Дата операции | Дата платежа | Номер карты | Статус | Сумма операции | ... | Категория | Описание | Бонусы (включая кэшбэк) |
//   |---------------|--------------|-------------|--------|----------------|-----|-----------|----------|-------------------------|
//   | 31.12.2021    | 31.12.2021   | *7197       | OK     | -160,89        | ... | Супермаркеты | Колхоз | 3                     |
//
// The parser returns raw cell values: numbers are not passed through their
// number format, so an amount styled "#,##0.00" arrives as "-1234.56" and a
// date cell arrives as its serial number. Column mapping and type conversion
// are handled by the transaction decoder.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads every row of a worksheet.
//
// PARAMETERS:
//   - path: The path to the .xlsx/.xlsm workbook.
//   - sheet: The worksheet name. Empty selects the first sheet.
//
// RETURNS:
//   - All rows as raw cell values, header row first. Trailing empty cells of a row
//     are omitted by excelize, so rows may be ragged.
//   - An error if the workbook cannot be opened or the sheet does not exist.
//     A missing file is reported with an error wrapping fs.ErrNotExist.
func Parse(path, sheet string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet '%s': %w", sheetName, err)
	}

	return rows, nil
}

// resolveSheet returns the requested sheet name, or the first sheet when
// none is requested.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	index, err := f.GetSheetIndex(sheet)
	if err != nil || index < 0 {
		return "", fmt.Errorf("sheet '%s' not found", sheet)
	}
	return sheet, nil
}

// =============================================================================
// WRITER (fixtures and exports)
// =============================================================================

// Write stores rows into a new workbook with a single sheet.
// It is used to produce sample statements and test fixtures.
func Write(path, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
