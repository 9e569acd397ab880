package layout

// Format tells the sink how to style a column's data cells.
type Format int

const (
	FormatText Format = iota
	FormatNumber
	FormatMoney
)

// RowKind tells the sink how to style a row.
type RowKind int

const (
	// RowData is a task line item or a plain listing row.
	RowData RowKind = iota
	// RowHeading is a sub-header inside the data block (e.g. "Photos/Attachments").
	RowHeading
	// RowNote is a label/value row such as "Client Name:".
	RowNote
	// RowBlank is an empty spacer row.
	RowBlank
	// RowTotal is the grand-total row under a task block.
	RowTotal
)

// Formula is a cell written as a formula instead of a literal value.
type Formula string

// Column is one column of a planned sheet.
type Column struct {
	Header string
	Width  float64
	Format Format
}

// Row is one planned row below the header. Cells are positioned by column
// index; a cell is a string, float64, int, Formula or nil (left empty).
type Row struct {
	Kind  RowKind
	Cells []any
}

// Sheet is the plan for one worksheet: its allocated name, an optional title
// row, one header row made of the column headers, then Rows.
type Sheet struct {
	Name    string
	Title   string
	Columns []Column
	Rows    []Row
}

// HeaderRows returns the number of rows above the first data row.
func (s *Sheet) HeaderRows() int {
	if s.Title != "" {
		return 2
	}
	return 1
}

// NextRow returns the 1-based sheet row the next appended row will occupy.
func (s *Sheet) NextRow() int {
	return s.HeaderRows() + len(s.Rows) + 1
}

func (s *Sheet) appendRow(kind RowKind, cells ...any) {
	s.Rows = append(s.Rows, Row{Kind: kind, Cells: cells})
}

// DataRows counts the RowData rows.
func (s *Sheet) DataRows() int {
	n := 0
	for _, r := range s.Rows {
		if r.Kind == RowData {
			n++
		}
	}
	return n
}
