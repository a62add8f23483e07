package content

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SyncWorkbook writes cell updates into an embedded chart workbook and
// returns the new workbook bytes. Updates naming a sheet the workbook
// does not have are skipped and counted.
func SyncWorkbook(data []byte, updates []CellUpdate) (out []byte, skipped int, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("opening chart workbook: %w", err)
	}
	defer f.Close()

	for _, u := range updates {
		idx, err := f.GetSheetIndex(u.Sheet)
		if err != nil || idx < 0 {
			skipped++
			continue
		}
		if err := f.SetCellValue(u.Sheet, u.Cell, u.Value); err != nil {
			return nil, skipped, fmt.Errorf("setting %s!%s: %w", u.Sheet, u.Cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, skipped, fmt.Errorf("writing chart workbook: %w", err)
	}
	return buf.Bytes(), skipped, nil
}
