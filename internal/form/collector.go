package form

import (
	"net/url"
	"sort"
)

// Field is a single input of a form as seen at submit time.
type Field struct {
	Name     string
	Value    string
	Disabled bool
}

// Source exposes the current inputs of a form.
type Source interface {
	Fields() []Field
}

// Fields adapts a plain slice to Source.
type Fields []Field

// Fields implements Source
func (f Fields) Fields() []Field {
	return f
}

// Payload is the set of named values submitted for one prediction.
// Names may repeat (multi-valued inputs), so values are kept in order per name.
type Payload url.Values

// Collect reads every named, enabled field of src into a new Payload.
// Values are copied verbatim. Unnamed and disabled fields are skipped, the
// same way a browser builds form data.
func Collect(src Source) Payload {
	p := make(Payload)
	if src == nil {
		return p
	}
	for _, f := range src.Fields() {
		if f.Name == "" || f.Disabled {
			continue
		}
		p[f.Name] = append(p[f.Name], f.Value)
	}
	return p
}

// Get returns the first value for name, or "" if the field was not submitted.
func (p Payload) Get(name string) string {
	return url.Values(p).Get(name)
}

// Has reports whether name was present in the form, even with an empty value.
func (p Payload) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Names returns the submitted field names in sorted order.
func (p Payload) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode returns the payload in application/x-www-form-urlencoded form.
func (p Payload) Encode() string {
	return url.Values(p).Encode()
}
