package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/veloce/showroom/internal/domain"
)

// ActivityWorkbook renders the accumulated activity feed as an xlsx
// download. carNames resolves product ids to display names; unknown ids
// fall back to the raw id.
func ActivityWorkbook(items []domain.ActivityItem, carNames map[int64]string) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Activity"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Timestamp", "Action", "Car", "Details"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, it := range items {
		name, ok := carNames[it.Product]
		if !ok {
			name = fmt.Sprintf("Car #%d", it.Product)
		}
		values := []any{it.Timestamp, it.Action.Label(), name, it.Details}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "C", 26)
	return f, nil
}
