package leaderboardservice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported leaderboard.
const SheetName = "Leaderboard"

var workbookHeader = []any{"Rank", "Trader", "Score", "PnL", "Sharpe", "Max Drawdown", "Win Rate", "Run ID", "Created At"}

// BuildWorkbook writes a board to an XLSX document. Missing metrics are left
// as empty cells.
func BuildWorkbook(board *Board) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	title := fmt.Sprintf("%s (%s)", board.Event.Name, board.Event.Code)
	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A2", &workbookHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range board.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		values := []any{
			row.Rank,
			row.Trader,
			cellValue(row.Score),
			cellValue(row.PnL),
			cellValue(row.Sharpe),
			cellValue(row.MaxDrawdown),
			cellValue(row.WinRate),
			row.RunID,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row.Rank, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "H", "I", 38); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
