package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/orayew2002/checklist-excel/domain"
	"github.com/orayew2002/checklist-excel/excel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChecklist() *domain.Checklist {
	return &domain.Checklist{
		Title: "Smith Bathroom",
		Client: &domain.ClientDetails{
			Name:          "Jane Smith",
			Address:       "1 Main St",
			OTReportFiles: []string{"ot.pdf"},
			DrawingFiles:  []string{"plan.pdf"},
		},
		Sections: []domain.Section{
			{Key: "clientDetails", Heading: "Client & Project Details"},
			{Key: "plumbing", Heading: "Plumbing", Tasks: []domain.Task{
				{Task: "Pipes", Quantity: 3, Price: 10, MaterialCost: 5},
				{Task: "Valves", Quantity: 2, Price: 20},
			}, Photos: []domain.PhotoGroup{{Task: "Pipes", Photos: []string{"a.jpg", "data:image/png;base64,AAAA"}}}},
			{Key: "Plumbing", Heading: "plumbing", Tasks: []domain.Task{{Task: "Drain"}}},
			{Key: "electrical", Heading: "Electrical: Wiring/Lights", Tasks: []domain.Task{{Task: "Sockets"}}},
		},
	}
}

func sheetNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	return names
}

func totalCell(t *testing.T, s Sheet, row int) Formula {
	t.Helper()
	cells := s.Rows[row].Cells
	f, ok := cells[len(cells)-1].(Formula)
	require.True(t, ok, "row %d total is %T", row, cells[len(cells)-1])
	return f
}

func TestBuildSections(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Mode: ModeSections})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Client Details",
		"Client Attachments",
		"Plumbing",
		"Plumbing Attachments",
		"Plumbing (2)",
		"Electrical WiringLights",
	}, sheetNames(sheets))

	client := sheets[0]
	require.Len(t, client.Rows, 1)
	assert.Equal(t, []any{"Jane Smith", "1 Main St", "", ""}, client.Rows[0].Cells)

	plumbing := sheets[2]
	require.Len(t, plumbing.Rows, 2)
	assert.Equal(t, []any{"Pipes", "", 3.0, "", 10.0, 5.0, Formula("C2*E2+F2")}, plumbing.Rows[0].Cells)
	assert.Equal(t, Formula("C3*E3+F3"), totalCell(t, plumbing, 1))

	att := sheets[3]
	require.Len(t, att.Rows, 2)
	assert.Equal(t, []any{"Pipes", "Photo", "data:image/png (3 bytes)"}, att.Rows[1].Cells)

	assert.Equal(t, Formula("C2*E2+F2"), totalCell(t, sheets[4], 0))
}

func TestBuildSectionsClientSectionWithTasks(t *testing.T) {
	c := &domain.Checklist{Sections: []domain.Section{
		{Key: "clientdetails", Heading: "Client Details", Tasks: []domain.Task{{Task: "Survey"}}},
	}, Client: &domain.ClientDetails{Name: "A"}}

	sheets, err := Build(c, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Client Details", "Client Details (2)"}, sheetNames(sheets))
}

func TestBuildGrouped(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Mode: ModeGrouped})
	require.NoError(t, err)

	assert.Equal(t, []string{"Client & Project Details", "Plumbing", "Electrical WiringLights"}, sheetNames(sheets))

	client := sheets[0]
	require.Len(t, client.Rows, 5)
	assert.Equal(t, RowBlank, client.Rows[0].Kind)
	assert.Equal(t, []any{"Client Name:", "Jane Smith"}, client.Rows[1].Cells)
	assert.Equal(t, []any{"Drawings Attachments:", "plan.pdf"}, client.Rows[4].Cells)

	plumbing := sheets[1]
	// 2 tasks, blank, 2 photo headings, 1 photo row, then the merged section's task.
	require.Len(t, plumbing.Rows, 7)
	assert.Equal(t, Formula("C2*E2+F2"), totalCell(t, plumbing, 0))
	assert.Equal(t, Formula("C3*E3+F3"), totalCell(t, plumbing, 1))
	assert.Equal(t, []any{"Photos/Attachments"}, plumbing.Rows[3].Cells)
	assert.Equal(t, []any{"Pipes", 2, "a.jpg\ndata:image/png (3 bytes)"}, plumbing.Rows[5].Cells)
	assert.Equal(t, "Drain", plumbing.Rows[6].Cells[0])
	assert.Equal(t, Formula("C8*E8+F8"), totalCell(t, plumbing, 6))
	assert.Equal(t, 3, plumbing.DataRows())
}

func TestBuildGroupedTotalSkipsPhotoRows(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Mode: ModeGrouped, GrandTotal: true})
	require.NoError(t, err)

	plumbing := sheets[1]
	require.Len(t, plumbing.Rows, 8)
	total := plumbing.Rows[7]
	assert.Equal(t, RowTotal, total.Kind)
	assert.Equal(t, Formula("SUM(G2:G3,G8)"), total.Cells[6])
}

func TestBuildGroupedTotalColumnBesidePhotoCount(t *testing.T) {
	c := &domain.Checklist{Sections: []domain.Section{
		{Key: "tiling", Heading: "Tiling", Tasks: []domain.Task{{Task: "Floor", Quantity: 4, Price: 25}},
			Photos: []domain.PhotoGroup{{Task: "Floor", Photos: []string{"a.jpg", "b.jpg", "c.jpg"}}}},
	}}
	opts := Options{
		Mode:       ModeGrouped,
		GrandTotal: true,
		Columns:    []string{FieldTask, FieldTotal, FieldQuantity, FieldPrice, FieldMaterialCost},
	}

	sheets, err := Build(c, opts)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	tiling := sheets[0]
	// Photo count 3 lands in column B, the same column as the totals.
	assert.Equal(t, []any{"Floor", 3, "a.jpg\nb.jpg\nc.jpg"}, tiling.Rows[4].Cells)

	total := tiling.Rows[len(tiling.Rows)-1]
	assert.Equal(t, RowTotal, total.Kind)
	assert.Equal(t, []any{"Total", Formula("SUM(B2)")}, total.Cells)
}

func TestBuildConsolidated(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Mode: ModeConsolidated, GrandTotal: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Client Details", "Client Attachments", "Smith Bathroom", "Attachments"}, sheetNames(sheets))

	main := sheets[2]
	assert.Equal(t, "Section", main.Columns[0].Header)
	require.Len(t, main.Rows, 5)
	assert.Equal(t, "Plumbing", main.Rows[0].Cells[0])
	assert.Equal(t, Formula("D2*F2+G2"), totalCell(t, main, 0))
	assert.Equal(t, Formula("D5*F5+G5"), totalCell(t, main, 3))

	total := main.Rows[4]
	assert.Equal(t, RowTotal, total.Kind)
	assert.Equal(t, "Total", total.Cells[6])
	assert.Equal(t, Formula("SUM(H2:H5)"), total.Cells[7])

	att := sheets[3]
	require.Len(t, att.Rows, 2)
	assert.Equal(t, []any{"Plumbing", "Pipes", "Photo", "a.jpg"}, att.Rows[0].Cells)
}

func TestBuildTitleRowShiftsFormulas(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Mode: ModeSections, TitleRow: true, GrandTotal: true})
	require.NoError(t, err)

	plumbing := sheets[2]
	assert.Equal(t, "Smith Bathroom", plumbing.Title)
	assert.Equal(t, 2, plumbing.HeaderRows())
	assert.Equal(t, Formula("C3*E3+F3"), totalCell(t, plumbing, 0))
	assert.Equal(t, Formula("SUM(G3:G4)"), totalCell(t, plumbing, 2))

	// Non-task sheets never get a title.
	assert.Empty(t, sheets[0].Title)
}

func TestBuildCustomColumns(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{
		Mode:    ModeSections,
		Columns: []string{FieldTask, FieldPrice, FieldQuantity, FieldMaterialCost, FieldTotal},
	})
	require.NoError(t, err)
	assert.Equal(t, Formula("C2*B2+D2"), totalCell(t, sheets[2], 0))
}

func TestBuildWithoutTotalColumn(t *testing.T) {
	sheets, err := Build(sampleChecklist(), Options{Columns: []string{FieldTask, FieldUnit}, GrandTotal: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"Pipes", ""}, sheets[2].Rows[0].Cells)
	assert.Len(t, sheets[2].Rows, 2)
}

func TestBuildMissingOperandFailsFast(t *testing.T) {
	_, err := Build(&domain.Checklist{}, Options{
		Columns: []string{FieldTask, FieldQuantity, FieldMaterialCost, FieldTotal},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, excel.ErrConfiguration))
	assert.Contains(t, err.Error(), `"price"`)
}

func TestBuildRejectsBadOptions(t *testing.T) {
	_, err := Build(sampleChecklist(), Options{Mode: "pivot"})
	assert.True(t, errors.Is(err, excel.ErrConfiguration))

	_, err = Build(sampleChecklist(), Options{Columns: []string{FieldTask, FieldTask}})
	assert.True(t, errors.Is(err, excel.ErrConfiguration))

	_, err = Build(sampleChecklist(), Options{Columns: []string{"cost"}})
	assert.True(t, errors.Is(err, excel.ErrConfiguration))

	_, err = Build(nil, Options{})
	assert.Error(t, err)
}

func TestBuildFallbackNames(t *testing.T) {
	c := &domain.Checklist{Sections: []domain.Section{{Key: ""}, {Key: "???"}, {Key: strings.Repeat("z", 40)}}}

	sheets, err := Build(c, Options{FallbackName: "Section"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Section", "Section (2)", strings.Repeat("z", 31)}, sheetNames(sheets))
}

func TestBuildRegistryPerRun(t *testing.T) {
	c := sampleChecklist()
	first, err := Build(c, Options{})
	require.NoError(t, err)
	second, err := Build(c, Options{})
	require.NoError(t, err)
	assert.Equal(t, sheetNames(first), sheetNames(second))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Grouped ")
	require.NoError(t, err)
	assert.Equal(t, ModeGrouped, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSections, m)

	_, err = ParseMode("tabs")
	assert.True(t, errors.Is(err, excel.ErrConfiguration))
}

func TestDescribePhoto(t *testing.T) {
	assert.Equal(t, "photos/a.jpg", DescribePhoto(" photos/a.jpg "))
	assert.Equal(t, "data:image/jpeg (7 bytes)", DescribePhoto("data:image/jpeg;base64,QUJDREVGRw"))
	assert.Equal(t, "data:image/png (3 bytes)", DescribePhoto("data:image/png;base64,AAAA"))
	assert.Equal(t, "data:image/png (invalid base64)", DescribePhoto("data:image/png;base64,!!"))
	assert.Equal(t, "data URL", DescribePhoto("data:broken"))
	assert.Equal(t, "data:text/plain (2 bytes)", DescribePhoto("data:,hi"))
	assert.Equal(t, "data:text/plain (3 bytes)", DescribePhoto("data:text/plain,a%20b"))
}
