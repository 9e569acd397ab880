package layout

import (
	"fmt"

	"github.com/orayew2002/checklist-excel/domain"
	"github.com/orayew2002/checklist-excel/excel"
)

// Column fields accepted in Options.Columns.
const (
	FieldSection      = "section"
	FieldTask         = "task"
	FieldDescription  = "description"
	FieldQuantity     = "quantity"
	FieldUnit         = "unit"
	FieldPrice        = "price"
	FieldMaterialCost = "material_cost"
	FieldTotal        = "total"
)

// columnDef describes one task column: header, width, style and value extractor.
// formulaField is the excel.ColumnMap key when the column is a formula operand.
type columnDef struct {
	header       string
	width        float64
	format       Format
	formulaField string
	value        func(s domain.Section, t domain.Task) any
}

var columnDefs = map[string]columnDef{
	FieldSection: {header: "Section", width: 20, value: func(s domain.Section, _ domain.Task) any { return s.Label() }},
	FieldTask:    {header: "Task", width: 20, value: func(_ domain.Section, t domain.Task) any { return t.Task }},
	FieldDescription: {header: "Description", width: 30,
		value: func(_ domain.Section, t domain.Task) any { return t.Description }},
	FieldQuantity: {header: "Quantity", width: 10, format: FormatNumber, formulaField: excel.FieldQuantity,
		value: func(_ domain.Section, t domain.Task) any { return t.Quantity }},
	FieldUnit: {header: "Unit", width: 10, value: func(_ domain.Section, t domain.Task) any { return t.Unit }},
	FieldPrice: {header: "Price", width: 10, format: FormatMoney, formulaField: excel.FieldPrice,
		value: func(_ domain.Section, t domain.Task) any { return t.Price }},
	FieldMaterialCost: {header: "Material Cost", width: 15, format: FormatMoney, formulaField: excel.FieldMaterialCost,
		value: func(_ domain.Section, t domain.Task) any { return t.MaterialCost }},
	// The total is always a formula, filled in by the builder.
	FieldTotal: {header: "Total", width: 12, format: FormatMoney},
}

// DefaultColumns returns the task column order used by mode.
func DefaultColumns(mode Mode) []string {
	cols := []string{FieldTask, FieldDescription, FieldQuantity, FieldUnit, FieldPrice, FieldMaterialCost, FieldTotal}
	if mode == ModeConsolidated {
		return append([]string{FieldSection}, cols...)
	}
	return cols
}

// ValidateColumns rejects unknown and repeated fields.
func ValidateColumns(fields []string) error {
	if len(fields) == 0 {
		return &excel.ConfigurationError{Field: "columns", Reason: "empty column list"}
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if _, ok := columnDefs[f]; !ok {
			return &excel.ConfigurationError{Field: f, Reason: "unknown column"}
		}
		if seen[f] {
			return &excel.ConfigurationError{Field: f, Reason: "column listed twice"}
		}
		seen[f] = true
	}

	return nil
}

// taskColumns is the resolved column layout of task sheets.
type taskColumns struct {
	fields   []string
	columns  []Column
	operands excel.ColumnMap
	total    string // column letter of the total, "" when not shown
}

func resolveColumns(fields []string) (*taskColumns, error) {
	if err := ValidateColumns(fields); err != nil {
		return nil, err
	}

	tc := &taskColumns{fields: fields, operands: excel.ColumnMap{}}
	for i, f := range fields {
		def := columnDefs[f]
		tc.columns = append(tc.columns, Column{Header: def.header, Width: def.width, Format: def.format})

		letter := excel.IndexToColumn(i)
		if def.formulaField != "" {
			tc.operands[def.formulaField] = letter
		}
		if f == FieldTotal {
			tc.total = letter
		}
	}

	// Fail before any sheet is planned rather than on the first task.
	if tc.total != "" {
		if _, err := excel.FormulaFor(0, 1, tc.operands); err != nil {
			return nil, err
		}
	}

	return tc, nil
}

// cells returns the values of one task row; the total cell gets formula.
func (tc *taskColumns) cells(s domain.Section, t domain.Task, formula string) []any {
	out := make([]any, len(tc.fields))
	for i, f := range tc.fields {
		if f == FieldTotal {
			out[i] = Formula(formula)
			continue
		}
		out[i] = columnDefs[f].value(s, t)
	}
	return out
}

// totalRow builds the grand-total row summing the total column over the given
// task rows. The label sits in the column left of the total.
func (tc *taskColumns) totalRow(rows []int) ([]any, error) {
	idx := -1
	for i, f := range tc.fields {
		if f == FieldTotal {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("grand total: %w", &excel.ConfigurationError{Field: FieldTotal, Reason: "no total column"})
	}

	out := make([]any, idx+1)
	if idx > 0 {
		out[idx-1] = "Total"
	}
	out[idx] = Formula(excel.SumFormula(tc.total, rows))
	return out, nil
}
