// Package export writes predictions to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/NatashaRy/house-price-predictor/pkg/schema"
	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

const (
	Sheet          = "Predictions"
	PriceColumn    = "PredictedSalePrice"
	totalLabel     = "Total"
	priceNumFormat = 3 // #,##0
)

// Inherited builds a workbook with one row per house: the resolved features
// in spec order, then the predicted price, then a total row.
func Inherited(rows []schema.Resolved, prices []float64) ([]byte, error) {
	if len(rows) == 0 {
		return nil, errors.New("export: no houses")
	}
	if len(rows) != len(prices) {
		return nil, fmt.Errorf("export: %d houses for %d prices", len(rows), len(prices))
	}
	spec := rows[0].Spec()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), Sheet); err != nil {
		return nil, err
	}

	headers := append(spec.Names(), PriceColumn)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(Sheet, cell, h); err != nil {
			return nil, err
		}
	}

	priceCol := len(headers)
	for r, house := range rows {
		if !house.Spec().Equal(spec) {
			return nil, fmt.Errorf("export: row %d: %w", r, schema.ErrSpecMismatch)
		}
		line := make([]any, 0, len(headers))
		for _, v := range house.Values() {
			line = append(line, v.Interface())
		}
		line = append(line, prices[r])
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(Sheet, cell, &line); err != nil {
			return nil, err
		}
	}

	totalRow := len(rows) + 2
	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(priceCol, totalRow)
	_ = f.SetCellValue(Sheet, labelCell, totalLabel)
	_ = f.SetCellValue(Sheet, totalCell, stats.Sum(prices))

	first, _ := excelize.CoordinatesToCellName(priceCol, 2)
	style, err := f.NewStyle(&excelize.Style{NumFmt: priceNumFormat})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(Sheet, first, totalCell, style); err != nil {
		return nil, err
	}
	colName, _ := excelize.ColumnNumberToName(priceCol)
	_ = f.SetColWidth(Sheet, colName, colName, 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
