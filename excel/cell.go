package excel

import (
	"strconv"
	"strings"
)

// CellName converts 0-based row and column indices to a cell reference (0,0 → "A1").
func CellName(row, col int) string {
	return IndexToColumn(col) + strconv.Itoa(row+1)
}

// CellRef joins a column letter and a 1-based row number ("C", 2 → "C2").
func CellRef(column string, row int) string {
	return strings.ToUpper(column) + strconv.Itoa(row)
}

// IndexToColumn converts a 0-based column index to column letters (0→A, 25→Z, 26→AA).
func IndexToColumn(n int) string {
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}
