// Package htmlform extracts a checklist from a saved checklist form page.
package htmlform

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orayew2002/checklist-excel/domain"
)

const (
	formSections = "#checklistForm div[data-section]"
	anySections  = "[data-section]"
)

// ParseFile reads and parses a saved checklist page.
func ParseFile(path string) (*domain.Checklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Parse extracts sections, task rows, photo references and client details
// from checklist form HTML.
func Parse(r io.Reader) (*domain.Checklist, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	c := &domain.Checklist{Title: pageTitle(doc)}

	nodes := doc.Find(formSections)
	if nodes.Length() == 0 {
		nodes = doc.Find(anySections)
	}

	var parseErr error
	nodes.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		s, err := parseSection(sel)
		if err != nil {
			parseErr = fmt.Errorf("section %d: %w", i+1, err)
			return false
		}
		c.Sections = append(c.Sections, s)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	c.Client = parseClient(doc)
	return c, nil
}

func pageTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func parseSection(sel *goquery.Selection) (domain.Section, error) {
	s := domain.Section{
		Key:     strings.TrimSpace(sel.AttrOr("data-section", "")),
		Heading: collapseSpace(sel.Find("h2").First().Text()),
	}

	var rowErr error
	sel.Find(".row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		task, err := parseTask(row)
		if err != nil {
			rowErr = fmt.Errorf("%q row %d: %w", s.Label(), i+1, err)
			return false
		}
		s.Tasks = append(s.Tasks, task)
		return true
	})
	if rowErr != nil {
		return domain.Section{}, rowErr
	}

	sel.Find(".photo-groups .task-photo-group").Each(func(_ int, group *goquery.Selection) {
		g := domain.PhotoGroup{Task: strings.TrimSpace(group.AttrOr("data-task", ""))}
		group.Find("img").Each(func(_ int, img *goquery.Selection) {
			if src := strings.TrimSpace(img.AttrOr("src", "")); src != "" {
				g.Photos = append(g.Photos, src)
			}
		})
		if len(g.Photos) > 0 {
			s.Photos = append(s.Photos, g)
		}
	})

	return s, nil
}

func parseTask(row *goquery.Selection) (domain.Task, error) {
	t := domain.Task{
		Task:        fieldValue(row.Find(".task").First()),
		Description: fieldValue(row.Find(".description").First()),
		Unit:        fieldValue(row.Find("select").First()),
	}

	var err error
	if t.Quantity, err = number(row, ".quantity"); err != nil {
		return t, err
	}
	if t.Price, err = number(row, ".price"); err != nil {
		return t, err
	}
	if t.MaterialCost, err = number(row, ".material-cost"); err != nil {
		return t, err
	}
	return t, nil
}

// number reads a numeric field; a missing or blank field counts as 0.
func number(row *goquery.Selection, selector string) (float64, error) {
	raw := fieldValue(row.Find(selector).First())
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid number %q", selector, raw)
	}
	return v, nil
}

// fieldValue returns the current value of a form control as saved in HTML.
func fieldValue(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	switch goquery.NodeName(sel) {
	case "textarea":
		return strings.TrimSpace(sel.Text())
	case "select":
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		if v, ok := opt.Attr("value"); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(opt.Text())
	default:
		return strings.TrimSpace(sel.AttrOr("value", ""))
	}
}

func parseClient(doc *goquery.Document) *domain.ClientDetails {
	name := doc.Find("#clientName")
	address := doc.Find("#clientAddress")
	hasSection := doc.Find(anySections).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return (domain.Section{Key: s.AttrOr("data-section", "")}).IsClientDetails()
	}).Length() > 0

	if !hasSection && name.Length() == 0 && address.Length() == 0 {
		return nil
	}

	return &domain.ClientDetails{
		Name:              fieldValue(name.First()),
		Address:           fieldValue(address.First()),
		OTReportAvailable: fieldValue(doc.Find("#otReportAvailable").First()),
		DrawingsAvailable: fieldValue(doc.Find("#drawingsAvailable").First()),
		OTReportFiles:     fileNames(doc.Find("#otReportAttachment")),
		DrawingFiles:      fileNames(doc.Find("#drawingsAttachment")),
	}
}

// fileNames reads the comma-separated data-files attribute of a file input.
// Browsers never serialize chosen files, so the page must record them.
func fileNames(sel *goquery.Selection) []string {
	var out []string
	for _, name := range strings.Split(sel.AttrOr("data-files", ""), ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
