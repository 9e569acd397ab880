package domain

import "strings"

// ClientDetailsKey is the section key of the client & project details section.
const ClientDetailsKey = "clientDetails"

// Checklist is one renovation checklist as entered in the form.
type Checklist struct {
	Title    string         `yaml:"title" json:"title"`
	Client   *ClientDetails `yaml:"client,omitempty" json:"client,omitempty"`
	Sections []Section      `yaml:"sections" json:"sections"`
}

// Section groups the task line items under one heading.
// Key is the machine identifier (data-section); Heading is the display text.
type Section struct {
	Key     string       `yaml:"key" json:"key"`
	Heading string       `yaml:"heading,omitempty" json:"heading,omitempty"`
	Tasks   []Task       `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	Photos  []PhotoGroup `yaml:"photos,omitempty" json:"photos,omitempty"`
}

// Label returns the text a worksheet for this section is named after.
func (s Section) Label() string {
	if h := strings.TrimSpace(s.Heading); h != "" {
		return h
	}
	return s.Key
}

// GroupKey is the case-insensitive identity used to merge duplicate sections.
func (s Section) GroupKey() string {
	return strings.ToLower(strings.TrimSpace(s.Key))
}

// IsClientDetails reports whether s is the client & project details section.
func (s Section) IsClientDetails() bool {
	return strings.EqualFold(strings.TrimSpace(s.Key), ClientDetailsKey)
}

// PhotoCount returns the number of photos across all of the section's groups.
func (s Section) PhotoCount() int {
	n := 0
	for _, g := range s.Photos {
		n += len(g.Photos)
	}
	return n
}

// Task is one checklist line item. Its total is never stored; the workbook
// computes it as Quantity*Price + MaterialCost.
type Task struct {
	Task         string  `yaml:"task" json:"task"`
	Description  string  `yaml:"description,omitempty" json:"description,omitempty"`
	Quantity     float64 `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	Unit         string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Price        float64 `yaml:"price,omitempty" json:"price,omitempty"`
	MaterialCost float64 `yaml:"material_cost,omitempty" json:"material_cost,omitempty"`
}

// ClientDetails holds the client & project fields and attachment file names.
type ClientDetails struct {
	Name              string   `yaml:"name" json:"name"`
	Address           string   `yaml:"address,omitempty" json:"address,omitempty"`
	OTReportAvailable string   `yaml:"ot_report_available,omitempty" json:"ot_report_available,omitempty"`
	DrawingsAvailable string   `yaml:"drawings_available,omitempty" json:"drawings_available,omitempty"`
	OTReportFiles     []string `yaml:"ot_report_files,omitempty" json:"ot_report_files,omitempty"`
	DrawingFiles      []string `yaml:"drawing_files,omitempty" json:"drawing_files,omitempty"`
}

// Attachment is one client attachment listed in the workbook.
type Attachment struct {
	Type string
	Name string
}

// Attachments lists OT report files first, then drawings.
func (c *ClientDetails) Attachments() []Attachment {
	if c == nil {
		return nil
	}
	out := make([]Attachment, 0, len(c.OTReportFiles)+len(c.DrawingFiles))
	for _, name := range c.OTReportFiles {
		out = append(out, Attachment{Type: "OT Report", Name: name})
	}
	for _, name := range c.DrawingFiles {
		out = append(out, Attachment{Type: "Drawings", Name: name})
	}
	return out
}

// PhotoGroup holds the photos attached to one task. Each photo is a source
// reference: a path, a URL or a data URL.
type PhotoGroup struct {
	Task   string   `yaml:"task" json:"task"`
	Photos []string `yaml:"photos" json:"photos"`
}
