package excel

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Logical field names used as ColumnMap keys.
const (
	FieldQuantity     = "quantity"
	FieldPrice        = "price"
	FieldMaterialCost = "materialCost"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("layout configuration error")

// ConfigurationError reports a layout the caller configured incorrectly,
// such as a formula operand with no column assigned.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%v: field %q: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ColumnMap assigns column letters to logical field names, e.g. {"quantity": "C"}.
type ColumnMap map[string]string

// Column returns the validated, upper-cased letter for field.
func (m ColumnMap) Column(field string) (string, error) {
	letter, ok := m[field]
	if !ok || strings.TrimSpace(letter) == "" {
		return "", &ConfigurationError{Field: field, Reason: "no column assigned"}
	}

	letter = strings.ToUpper(strings.TrimSpace(letter))
	if _, err := excelize.ColumnNameToNumber(letter); err != nil {
		return "", &ConfigurationError{Field: field, Reason: fmt.Sprintf("invalid column %q", letter)}
	}

	return letter, nil
}

// RowNumber returns the 1-based sheet row of the data row at dataRowIndex
// when headerRowCount rows precede the data block.
func RowNumber(dataRowIndex, headerRowCount int) int {
	return headerRowCount + 1 + dataRowIndex
}

// FormulaFor returns the total-cost formula for one data row:
// quantity*price + materialCost, referencing the row's own cells.
//
//	FormulaFor(0, 1, {quantity: C, price: E, materialCost: F}) → "C2*E2+F2"
//	FormulaFor(2, 1, ...)                                       → "C4*E4+F4"
func FormulaFor(dataRowIndex, headerRowCount int, columns ColumnMap) (string, error) {
	if dataRowIndex < 0 {
		return "", &ConfigurationError{Reason: fmt.Sprintf("negative data row index %d", dataRowIndex)}
	}
	if headerRowCount < 1 {
		return "", &ConfigurationError{Reason: fmt.Sprintf("header row count %d, need at least 1", headerRowCount)}
	}

	quantity, err := columns.Column(FieldQuantity)
	if err != nil {
		return "", err
	}
	price, err := columns.Column(FieldPrice)
	if err != nil {
		return "", err
	}
	material, err := columns.Column(FieldMaterialCost)
	if err != nil {
		return "", err
	}

	row := RowNumber(dataRowIndex, headerRowCount)
	return CellRef(quantity, row) + "*" + CellRef(price, row) + "+" + CellRef(material, row), nil
}

// SumFormula sums column over the given 1-based rows. Consecutive rows are
// merged into ranges; an empty row list sums to 0.
//
//	SumFormula("G", []int{2, 3, 4, 9}) → "SUM(G2:G4,G9)"
func SumFormula(column string, rows []int) string {
	if len(rows) == 0 {
		return "0"
	}

	sorted := slices.Clone(rows)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var parts []string
	start := sorted[0]
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i] == sorted[i-1]+1 {
			continue
		}
		end := sorted[i-1]
		if start == end {
			parts = append(parts, CellRef(column, start))
		} else {
			parts = append(parts, CellRef(column, start)+":"+CellRef(column, end))
		}
		if i < len(sorted) {
			start = sorted[i]
		}
	}

	return "SUM(" + strings.Join(parts, ",") + ")"
}
