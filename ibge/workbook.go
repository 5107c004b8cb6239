package ibge

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/redecred/redecred"
)

// workbookSignature opens every OLE2 compound file, the container of
// legacy Excel (.xls) workbooks.
var workbookSignature = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// maxWorkbookRows is the row limit of a BIFF8 sheet.
const maxWorkbookRows = 1 << 16

// readWorkbook returns the cells of every sheet as text rows. Missing rows
// come back empty.
func readWorkbook(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, redecred.Errorf(redecred.EINVALID, "neighbor reference workbook is corrupt: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open neighbor reference workbook: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, redecred.Errorf(redecred.EINVALID, "neighbor reference workbook has no sheets")
	}
	return wb.ReadAllCells(maxWorkbookRows), nil
}
