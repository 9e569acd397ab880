package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/orayew2002/checklist-excel/excel"
	"github.com/orayew2002/checklist-excel/layout"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when there is nothing to put in the workbook.
var ErrNoSheets = errors.New("no sheets to write")

// Properties are the document properties stored in the workbook.
type Properties struct {
	Creator string
	Title   string
	Created time.Time
}

// Processor writes sheet plans into Excel workbooks.
type Processor struct {
	log   zerolog.Logger
	props Properties
}

// New creates a Processor. A zero logger discards output.
func New(log zerolog.Logger, props Properties) *Processor {
	return &Processor{log: log, props: props}
}

// ExportFile writes sheets into a new workbook and saves it to output.
func (p *Processor) ExportFile(sheets []layout.Sheet, output string) error {
	f, err := p.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(output); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}

	p.log.Info().Str("output", output).Int("sheets", len(sheets)).Msg("workbook saved")
	return nil
}

// Export writes sheets into a new workbook and returns the file as bytes.
func (p *Processor) Export(sheets []layout.Sheet) ([]byte, error) {
	f, err := p.build(sheets)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write to buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *Processor) build(sheets []layout.Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	if err := p.setDocProps(f); err != nil {
		f.Close()
		return nil, err
	}

	sm := NewStyleManager(f)
	defaultSheet := f.GetSheetName(0)

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename %q: %w", defaultSheet, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %q: %w", s.Name, err)
		}

		if err := p.writeSheet(f, sm, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}

		p.log.Debug().Str("sheet", s.Name).Int("rows", len(s.Rows)).Msg("sheet written")
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (p *Processor) setDocProps(f *excelize.File) error {
	created := p.props.Created
	if created.IsZero() {
		created = time.Now()
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        p.props.Creator,
		LastModifiedBy: p.props.Creator,
		Title:          p.props.Title,
		Created:        created.UTC().Format(time.RFC3339),
		Modified:       created.UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}

	return nil
}

func (p *Processor) writeSheet(f *excelize.File, sm *StyleManager, s layout.Sheet) error {
	row := 0

	if s.Title != "" {
		if err := writeTitle(f, sm, s); err != nil {
			return fmt.Errorf("title: %w", err)
		}
		row++
	}

	if err := writeHeader(f, sm, s, row); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	row++

	if err := f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: excel.CellName(row, 0),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for _, r := range s.Rows {
		if err := writeRow(f, sm, s, row, r); err != nil {
			return fmt.Errorf("row %d: %w", row+1, err)
		}
		row++
	}

	for col, c := range s.Columns {
		if c.Width <= 0 {
			continue
		}
		name := excel.IndexToColumn(col)
		if err := f.SetColWidth(s.Name, name, name, c.Width); err != nil {
			return fmt.Errorf("col %s width: %w", name, err)
		}
	}

	return nil
}

func writeTitle(f *excelize.File, sm *StyleManager, s layout.Sheet) error {
	cell := excel.CellName(0, 0)
	if err := f.SetCellStr(s.Name, cell, s.Title); err != nil {
		return err
	}

	end := cell
	if len(s.Columns) > 1 {
		end = excel.CellName(0, len(s.Columns)-1)
		if err := f.MergeCell(s.Name, cell, end); err != nil {
			return fmt.Errorf("merge: %w", err)
		}
	}

	styleID, err := sm.Title()
	if err != nil {
		return err
	}
	return f.SetCellStyle(s.Name, cell, end, styleID)
}

func writeHeader(f *excelize.File, sm *StyleManager, s layout.Sheet, row int) error {
	if len(s.Columns) == 0 {
		return nil
	}

	for col, c := range s.Columns {
		if err := f.SetCellStr(s.Name, excel.CellName(row, col), c.Header); err != nil {
			return fmt.Errorf("col %d: %w", col, err)
		}
	}

	styleID, err := sm.Header()
	if err != nil {
		return err
	}
	return f.SetCellStyle(s.Name, excel.CellName(row, 0), excel.CellName(row, len(s.Columns)-1), styleID)
}

func writeRow(f *excelize.File, sm *StyleManager, s layout.Sheet, row int, r layout.Row) error {
	for col, value := range r.Cells {
		cell := excel.CellName(row, col)
		if err := setCell(f, s.Name, cell, value); err != nil {
			return fmt.Errorf("cell %s: %w", cell, err)
		}
		if value == nil && r.Kind != layout.RowData {
			continue
		}

		styleID, err := cellStyle(sm, s, r.Kind, col)
		if err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
		if styleID == 0 {
			continue
		}
		if err := f.SetCellStyle(s.Name, cell, cell, styleID); err != nil {
			return fmt.Errorf("set style %s: %w", cell, err)
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet, cell string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return f.SetCellStr(sheet, cell, v)
	case float64:
		return f.SetCellFloat(sheet, cell, v, -1, 64)
	case int:
		return f.SetCellInt(sheet, cell, int64(v))
	case layout.Formula:
		return f.SetCellFormula(sheet, cell, string(v))
	default:
		return f.SetCellValue(sheet, cell, v)
	}
}

// cellStyle picks the style of one cell from the row kind and, for data rows,
// the column format. Zero means leave the default style.
func cellStyle(sm *StyleManager, s layout.Sheet, kind layout.RowKind, col int) (int, error) {
	switch kind {
	case layout.RowHeading:
		return sm.Bold()
	case layout.RowNote:
		if col == 0 {
			return sm.Bold()
		}
		return 0, nil
	case layout.RowTotal:
		return sm.Total()
	case layout.RowData:
		if col >= len(s.Columns) {
			return sm.Text()
		}
		switch s.Columns[col].Format {
		case layout.FormatMoney:
			return sm.Money()
		case layout.FormatNumber:
			return sm.Number()
		default:
			return sm.Text()
		}
	default:
		return 0, nil
	}
}
