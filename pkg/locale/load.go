package locale

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed templates.toml
var builtinTemplates []byte

// matrix is the on-disk layout of a template file.
type matrix struct {
	Templates []Template `toml:"template"`
}

// Parse decodes a TOML template matrix. It does not validate the templates;
// NewCatalog does that.
func Parse(data []byte) ([]Template, error) {
	var m matrix
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parsing templates TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown template keys: %v", undecoded)
	}

	return m.Templates, nil
}

// Builtin returns the templates shipped with the gateway.
func Builtin() ([]Template, error) {
	return Parse(builtinTemplates)
}

// LoadFile reads a template matrix from path.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	return Parse(data)
}

// NewCatalogFromFile builds a Catalog from path, or from the builtin
// templates when path is empty.
func NewCatalogFromFile(path, base string) (*Catalog, error) {
	var (
		templates []Template
		err       error
	)

	if path == "" {
		templates, err = Builtin()
	} else {
		templates, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return NewCatalog(templates, base)
}

// BuiltinTOML returns a copy of the raw builtin template matrix.
func BuiltinTOML() []byte {
	return append([]byte(nil), builtinTemplates...)
}
