package layout

import "github.com/orayew2002/checklist-excel/domain"

// AnySection is the pattern that matches every section key.
const AnySection = "*"

// handlerFunc lays out one section into the export run held by b.
type handlerFunc func(b *builder, s domain.Section) error

// registry holds section key → handler mappings.
type registry struct {
	handlers []entry
}

type entry struct {
	pattern string
	handler handlerFunc
}

func newRegistry() *registry {
	return &registry{}
}

// register adds a handler for sections whose lowercase key equals pattern,
// or for every section when pattern is AnySection.
// Handlers are checked in registration order; the first match wins.
func (r *registry) register(pattern string, handler handlerFunc) {
	r.handlers = append(r.handlers, entry{pattern: pattern, handler: handler})
}

// process runs the first handler matching s. Returns true if one ran.
func (r *registry) process(b *builder, s domain.Section) (bool, error) {
	key := s.GroupKey()
	for _, e := range r.handlers {
		if e.pattern == AnySection || e.pattern == key {
			if err := e.handler(b, s); err != nil {
				return false, err
			}

			return true, nil
		}
	}

	return false, nil
}
