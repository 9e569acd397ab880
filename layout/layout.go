// Package layout turns a checklist into worksheet plans: allocated sheet
// names, columns, and rows whose total cells are formulas.
package layout

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/orayew2002/checklist-excel/domain"
	"github.com/orayew2002/checklist-excel/excel"
)

// Mode selects how sections map onto worksheets.
type Mode string

const (
	// ModeSections writes one task sheet per section plus an attachments
	// sheet for sections with photos.
	ModeSections Mode = "sections"
	// ModeGrouped merges sections sharing a key (case-insensitive) into one
	// sheet, with client info and photo listings appended inline.
	ModeGrouped Mode = "grouped"
	// ModeConsolidated writes every task into a single sheet with a leading
	// Section column.
	ModeConsolidated Mode = "consolidated"
)

// ParseMode converts a configured layout name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSections, ModeGrouped, ModeConsolidated:
		return m, nil
	case "":
		return ModeSections, nil
	default:
		return "", &excel.ConfigurationError{Field: "layout", Reason: fmt.Sprintf("unknown layout %q", s)}
	}
}

// Options configures one export run.
type Options struct {
	Mode Mode
	// Columns is the task column order; nil means DefaultColumns(Mode).
	Columns []string
	// FallbackName replaces section labels that sanitize to nothing.
	FallbackName string
	// TitleRow puts the checklist title above the header of task sheets.
	TitleRow bool
	// GrandTotal appends a SUM row under the task rows of each task sheet.
	GrandTotal bool
}

const (
	clientDetailsSheet     = "Client Details"
	clientAttachmentsSheet = "Client Attachments"
	attachmentsSheet       = "Attachments"
	consolidatedSheet      = "Checklist"
)

var clientSectionPattern = strings.ToLower(domain.ClientDetailsKey)

// Build lays out c for one export run. Every call uses a fresh name registry,
// so sheet names are unique within the returned plans only.
func Build(c *domain.Checklist, opts Options) ([]Sheet, error) {
	if c == nil {
		return nil, errors.New("layout: nil checklist")
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeSections
	}

	fields := opts.Columns
	if len(fields) == 0 {
		fields = DefaultColumns(mode)
	}
	cols, err := resolveColumns(fields)
	if err != nil {
		return nil, err
	}

	b := &builder{
		checklist: c,
		opts:      opts,
		names:     excel.NewNameRegistryWithFallback(opts.FallbackName),
		cols:      cols,
	}

	switch mode {
	case ModeSections:
		err = b.buildSections()
	case ModeGrouped:
		err = b.buildGrouped()
	case ModeConsolidated:
		err = b.buildConsolidated()
	default:
		err = &excel.ConfigurationError{Field: "layout", Reason: fmt.Sprintf("unknown layout %q", mode)}
	}
	if err != nil {
		return nil, err
	}

	out := make([]Sheet, len(b.sheets))
	for i, s := range b.sheets {
		out[i] = *s
	}
	return out, nil
}

type builder struct {
	checklist *domain.Checklist
	opts      Options
	names     *excel.NameRegistry
	cols      *taskColumns
	sheets    []*Sheet

	// current is the task sheet rows are appended to (grouped, consolidated).
	current *Sheet
	// photos collects attachment rows for the consolidated Attachments sheet.
	photos [][]any
}

func (b *builder) newSheet(label string, columns []Column) *Sheet {
	s := &Sheet{Name: b.names.Allocate(label), Columns: columns}
	b.sheets = append(b.sheets, s)
	return s
}

func (b *builder) newTaskSheet(label string) *Sheet {
	s := b.newSheet(label, b.cols.columns)
	if b.opts.TitleRow {
		s.Title = b.title()
	}
	return s
}

func (b *builder) title() string {
	if t := strings.TrimSpace(b.checklist.Title); t != "" {
		return t
	}
	return consolidatedSheet
}

// appendTasks writes section's tasks into sheet, each with a total formula
// pointing at the row the task actually lands on.
func (b *builder) appendTasks(sheet *Sheet, section domain.Section) error {
	for i, task := range section.Tasks {
		var formula string
		if b.cols.total != "" {
			var err error
			formula, err = excel.FormulaFor(len(sheet.Rows), sheet.HeaderRows(), b.cols.operands)
			if err != nil {
				return fmt.Errorf("section %q task %d: %w", section.Label(), i+1, err)
			}
		}
		sheet.appendRow(RowData, b.cols.cells(section, task, formula)...)
	}
	return nil
}

// finishTaskSheet appends the grand-total row when enabled. Only task rows are
// summed; notes and photo rows in between are skipped.
func (b *builder) finishTaskSheet(sheet *Sheet) error {
	if !b.opts.GrandTotal || b.cols.total == "" || sheet.DataRows() == 0 {
		return nil
	}

	var rows []int
	for i, r := range sheet.Rows {
		if r.Kind == RowData {
			rows = append(rows, sheet.HeaderRows()+1+i)
		}
	}
	cells, err := b.cols.totalRow(rows)
	if err != nil {
		return err
	}
	sheet.appendRow(RowTotal, cells...)
	return nil
}

// ---------- client sheets ----------

func (b *builder) addClientSheets() {
	client := b.checklist.Client
	if client == nil {
		return
	}

	details := b.newSheet(clientDetailsSheet, []Column{
		{Header: "Client Name", Width: 25},
		{Header: "Client Address", Width: 35},
		{Header: "OT Report Available", Width: 20},
		{Header: "Drawings Available", Width: 20},
	})
	details.appendRow(RowData, client.Name, client.Address, client.OTReportAvailable, client.DrawingsAvailable)

	attachments := client.Attachments()
	if len(attachments) == 0 {
		return
	}

	sheet := b.newSheet(clientAttachmentsSheet, []Column{
		{Header: "Attachment Type", Width: 20},
		{Header: "File Name", Width: 40},
	})
	for _, a := range attachments {
		sheet.appendRow(RowData, a.Type, a.Name)
	}
}

// appendClientNotes writes client info rows below the current data.
func appendClientNotes(sheet *Sheet, client *domain.ClientDetails) {
	if client == nil {
		client = &domain.ClientDetails{}
	}

	sheet.appendRow(RowBlank)
	sheet.appendRow(RowNote, "Client Name:", client.Name)
	sheet.appendRow(RowNote, "Client Address:", client.Address)
	sheet.appendRow(RowNote, "OT Report Attachments:", strings.Join(client.OTReportFiles, ", "))
	sheet.appendRow(RowNote, "Drawings Attachments:", strings.Join(client.DrawingFiles, ", "))
}

// ---------- sections ----------

func (b *builder) buildSections() error {
	b.addClientSheets()

	r := newRegistry()
	r.register(clientSectionPattern, func(b *builder, s domain.Section) error {
		// Client fields already have their own sheets; only tasks or photos
		// entered under the client section need a sheet here.
		if len(s.Tasks) == 0 && s.PhotoCount() == 0 {
			return nil
		}
		return b.sectionSheets(s)
	})
	r.register(AnySection, (*builder).sectionSheets)

	for _, s := range b.checklist.Sections {
		if _, err := r.process(b, s); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) sectionSheets(s domain.Section) error {
	sheet := b.newTaskSheet(s.Label())
	if err := b.appendTasks(sheet, s); err != nil {
		return err
	}
	if err := b.finishTaskSheet(sheet); err != nil {
		return err
	}

	if s.PhotoCount() == 0 {
		return nil
	}

	att := b.newSheet(s.Label()+" Attachments", []Column{
		{Header: "Task", Width: 20},
		{Header: "Attachment Type", Width: 18},
		{Header: "Attachment", Width: 40},
	})
	for _, g := range s.Photos {
		for _, src := range g.Photos {
			att.appendRow(RowData, g.Task, "Photo", DescribePhoto(src))
		}
	}
	return nil
}

// ---------- grouped ----------

func (b *builder) buildGrouped() error {
	r := newRegistry()
	r.register(clientSectionPattern, func(b *builder, s domain.Section) error {
		if err := b.appendTasks(b.current, s); err != nil {
			return err
		}
		appendClientNotes(b.current, b.checklist.Client)
		appendPhotoBlock(b.current, s)
		return nil
	})
	r.register(AnySection, func(b *builder, s domain.Section) error {
		if err := b.appendTasks(b.current, s); err != nil {
			return err
		}
		appendPhotoBlock(b.current, s)
		return nil
	})

	for _, group := range groupSections(b.checklist.Sections) {
		b.current = b.newTaskSheet(group[0].Label())
		for _, s := range group {
			if _, err := r.process(b, s); err != nil {
				return err
			}
		}
		if err := b.finishTaskSheet(b.current); err != nil {
			return err
		}
	}
	return nil
}

// groupSections groups sections by case-insensitive key in first-seen order.
func groupSections(sections []domain.Section) [][]domain.Section {
	var groups [][]domain.Section
	index := make(map[string]int)
	for _, s := range sections {
		key := s.GroupKey()
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], s)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []domain.Section{s})
	}
	return groups
}

func appendPhotoBlock(sheet *Sheet, s domain.Section) {
	if len(s.Photos) == 0 {
		return
	}

	sheet.appendRow(RowBlank)
	sheet.appendRow(RowHeading, "Photos/Attachments")
	sheet.appendRow(RowHeading, "Task", "Photo Count", "Photos")
	for _, g := range s.Photos {
		refs := make([]string, len(g.Photos))
		for i, src := range g.Photos {
			refs[i] = DescribePhoto(src)
		}
		sheet.appendRow(RowNote, g.Task, len(g.Photos), strings.Join(refs, "\n"))
	}
}

// ---------- consolidated ----------

func (b *builder) buildConsolidated() error {
	b.addClientSheets()
	b.current = b.newTaskSheet(b.title())

	r := newRegistry()
	r.register(AnySection, func(b *builder, s domain.Section) error {
		if err := b.appendTasks(b.current, s); err != nil {
			return err
		}
		for _, g := range s.Photos {
			for _, src := range g.Photos {
				b.photos = append(b.photos, []any{s.Label(), g.Task, "Photo", DescribePhoto(src)})
			}
		}
		return nil
	})

	for _, s := range b.checklist.Sections {
		if _, err := r.process(b, s); err != nil {
			return err
		}
	}
	if err := b.finishTaskSheet(b.current); err != nil {
		return err
	}

	if len(b.photos) == 0 {
		return nil
	}

	att := b.newSheet(attachmentsSheet, []Column{
		{Header: "Section", Width: 20},
		{Header: "Task", Width: 20},
		{Header: "Attachment Type", Width: 18},
		{Header: "Attachment", Width: 40},
	})
	for _, cells := range b.photos {
		att.appendRow(RowData, cells...)
	}
	return nil
}

// DescribePhoto returns the text listed for a photo source. Data URLs are
// summarized by media type and decoded payload size instead of being copied.
func DescribePhoto(src string) string {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "data:") {
		return src
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return "data URL"
	}
	mediaType, params, _ := strings.Cut(meta, ";")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	size, err := payloadSize(payload, strings.HasSuffix(params, "base64"))
	if err != nil {
		return fmt.Sprintf("data:%s (invalid base64)", mediaType)
	}
	return fmt.Sprintf("data:%s (%d bytes)", mediaType, size)
}

// payloadSize returns the decoded length of a data URL payload. Unpadded
// base64 is accepted; percent-encoded text that fails to unescape counts raw.
func payloadSize(payload string, isBase64 bool) (int, error) {
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
		return len(data), err
	}

	if text, err := url.PathUnescape(payload); err == nil {
		return len(text), nil
	}
	return len(payload), nil
}
