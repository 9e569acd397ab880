package domain

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/bxcodec/faker/v4"
)

var sectionKeys = []struct{ key, heading string }{
	{"demolition", "Demolition"},
	{"plumbing", "Plumbing"},
	{"electrical", "Electrical"},
	{"waterproofing", "Waterproofing"},
	{"tiling", "Tiling & Grout"},
	{"fixtures", "Fixtures / Fittings"},
	{"painting", "Painting"},
}

var units = []string{"each", "m2", "lm", "hour", "lot"}

// GenerateChecklist creates a checklist with random client details and n
// sections. Keys repeat once n exceeds the built-in list, so duplicate
// section handling is exercised.
func GenerateChecklist(n int) *Checklist {
	c := &Checklist{
		Title: "Bathroom Renovation Checklist",
		Client: &ClientDetails{
			Name:              faker.Name(),
			Address:           fmt.Sprintf("%s %s", faker.Word(), faker.Word()),
			OTReportAvailable: yesNo(),
			DrawingsAvailable: yesNo(),
			OTReportFiles:     []string{faker.Word() + ".pdf"},
			DrawingFiles:      []string{faker.Word() + ".pdf", faker.Word() + ".pdf"},
		},
	}

	c.Sections = append(c.Sections, Section{Key: ClientDetailsKey, Heading: "Client & Project Details"})
	for i := range n {
		def := sectionKeys[i%len(sectionKeys)]
		c.Sections = append(c.Sections, generateSection(def.key, def.heading))
	}

	return c
}

func generateSection(key, heading string) Section {
	s := Section{Key: key, Heading: heading}

	for range 2 + rand.IntN(5) {
		s.Tasks = append(s.Tasks, Task{
			Task:         faker.Word(),
			Description:  faker.Sentence(),
			Quantity:     float64(1 + rand.IntN(10)),
			Unit:         units[rand.IntN(len(units))],
			Price:        money(20, 400),
			MaterialCost: money(0, 250),
		})
	}

	if rand.IntN(2) == 0 && len(s.Tasks) > 0 {
		s.Photos = []PhotoGroup{{
			Task:   s.Tasks[0].Task,
			Photos: []string{faker.URL() + "/before.jpg", faker.URL() + "/after.jpg"},
		}}
	}

	return s
}

func money(lo, hi float64) float64 {
	return math.Round((lo+rand.Float64()*(hi-lo))*100) / 100
}

func yesNo() string {
	if rand.IntN(2) == 0 {
		return "No"
	}
	return "Yes"
}
