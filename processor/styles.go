package processor

import "github.com/xuri/excelize/v2"

// numFmtMoney is the built-in "#,##0.00" number format.
const numFmtMoney = 4

// StyleManager caches styles so each style is created only once per file.
type StyleManager struct {
	file  *excelize.File
	cache map[string]int
}

// NewStyleManager creates a style manager bound to the given file.
func NewStyleManager(f *excelize.File) *StyleManager {
	return &StyleManager{file: f, cache: make(map[string]int)}
}

// Title returns the bold, larger style of the title row.
func (sm *StyleManager) Title() (int, error) {
	return sm.getOrCreate("title", &excelize.Style{
		Font:      &excelize.Font{Family: defaultFamily, Size: 14, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

// Header returns the bold, centered, bordered header style.
func (sm *StyleManager) Header() (int, error) {
	return sm.getOrCreate("header", &excelize.Style{
		Font:      &excelize.Font{Family: defaultFamily, Size: 11, Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    defaultBorder(),
	})
}

// Text returns a left-aligned bordered style for text cells.
func (sm *StyleManager) Text() (int, error) {
	return sm.getOrCreate("text", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Border:    defaultBorder(),
	})
}

// Number returns a centered bordered style for plain numbers.
func (sm *StyleManager) Number() (int, error) {
	return sm.getOrCreate("number", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
		Border:    defaultBorder(),
	})
}

// Money returns a bordered two-decimal style for prices and totals.
func (sm *StyleManager) Money() (int, error) {
	return sm.getOrCreate("money", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "top"},
		Border:    defaultBorder(),
		NumFmt:    numFmtMoney,
	})
}

// Bold returns an unbordered bold style for labels and sub-headings.
func (sm *StyleManager) Bold() (int, error) {
	return sm.getOrCreate("bold", &excelize.Style{
		Font: &excelize.Font{Family: defaultFamily, Size: 11, Bold: true},
	})
}

// Total returns the bold money style of grand-total cells.
func (sm *StyleManager) Total() (int, error) {
	return sm.getOrCreate("total", &excelize.Style{
		Font:      &excelize.Font{Family: defaultFamily, Size: 11, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    []excelize.Border{{Type: "top", Color: "000000", Style: 1}, {Type: "bottom", Color: "000000", Style: 6}},
		NumFmt:    numFmtMoney,
	})
}

func (sm *StyleManager) getOrCreate(key string, style *excelize.Style) (int, error) {
	if id, ok := sm.cache[key]; ok {
		return id, nil
	}

	id, err := sm.file.NewStyle(style)
	if err != nil {
		return 0, err
	}

	sm.cache[key] = id
	return id, nil
}

const defaultFamily = "Calibri"

func defaultFont() *excelize.Font {
	return &excelize.Font{Family: defaultFamily, Size: 11}
}

func defaultBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
