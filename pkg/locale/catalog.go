package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultBaseLanguage is the language used when a request does not select
// one, or selects one that is not in the catalog.
const DefaultBaseLanguage = "de"

// Catalog is the immutable set of language templates. It is safe for
// concurrent use without locking since nothing mutates it after NewCatalog.
type Catalog struct {
	base   Template
	byCode map[string]Template
	codes  []string
}

// NewCatalog validates the given templates and builds a Catalog around them.
// Every problem found (incomplete templates, malformed or duplicate codes, a
// missing base language) is reported in a single joined error.
func NewCatalog(templates []Template, base string) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, errors.New("no language templates provided")
	}

	c := &Catalog{
		byCode: make(map[string]Template, len(templates)),
		codes:  make([]string, 0, len(templates)),
	}

	var errs []error
	for _, t := range templates {
		code := normalizeCode(t.Code)
		if code == "" {
			errs = append(errs, errors.New("template with empty code"))
			continue
		}
		t.Code = code

		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}

		keys := append([]string{code}, t.Aliases...)
		for _, key := range keys {
			key = normalizeCode(key)
			if _, err := language.Parse(key); err != nil {
				errs = append(errs, fmt.Errorf("template %q: invalid language code %q: %w", code, key, err))
				continue
			}
			if _, dup := c.byCode[key]; dup {
				errs = append(errs, fmt.Errorf("template %q: language code %q is already registered", code, key))
				continue
			}
			c.byCode[key] = t
		}
		c.codes = append(c.codes, code)
	}

	baseTemplate, ok := c.byCode[normalizeCode(base)]
	if !ok {
		errs = append(errs, fmt.Errorf("base language %q has no template", base))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid language templates: %w", err)
	}

	c.base = baseTemplate
	return c, nil
}

// Resolve returns the template for the given language code. Codes are matched
// case-insensitively against template codes and aliases. Unknown, empty or
// malformed codes resolve to the base template.
func (c *Catalog) Resolve(code string) Template {
	if t, ok := c.Lookup(code); ok {
		return t
	}
	return c.base
}

// Lookup returns the template for code and whether it is supported, without
// falling back to the base template.
func (c *Catalog) Lookup(code string) (Template, bool) {
	t, ok := c.byCode[normalizeCode(code)]
	return t, ok
}

// Base returns the base language template.
func (c *Catalog) Base() Template {
	return c.base
}

// Codes returns the primary code of every template in catalog order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
