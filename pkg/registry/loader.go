package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/rule"
)

type document struct {
	Forms map[string]formDocument `yaml:"forms"`
}

type formDocument struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Fields      []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	ID           string   `yaml:"id"`
	Type         string   `yaml:"type"`
	Label        string   `yaml:"label"`
	Required     flag     `yaml:"required"`
	Invisible    flag     `yaml:"invisible"`
	InitialValue any      `yaml:"initial_value"`
	MinValue     *float64 `yaml:"min_value"`
	MaxValue     *float64 `yaml:"max_value"`
}

// flag accepts either a YAML bool or a rule expression string.
type flag struct {
	set    bool
	static bool
	expr   string
}

func (f *flag) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected bool or expression", node.Line)
	}
	f.set = true
	if node.Tag == "!!bool" {
		return node.Decode(&f.static)
	}
	f.expr = node.Value
	return nil
}

func (f flag) requirement() (model.Requirement, error) {
	if !f.set {
		return model.Static(false), nil
	}
	if f.expr == "" {
		return model.Static(f.static), nil
	}
	return rule.Compile(f.expr)
}

// LoadFS walks fsys and registers every form found in YAML or JSON files.
// A nil fsys yields an empty registry.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := New()
	if fsys == nil {
		return reg, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("registry: read %s: %w", path, err)
		}
		defs, err := Parse(data)
		if err != nil {
			return fmt.Errorf("registry: %s: %w", path, err)
		}
		for _, def := range defs {
			if err := reg.Register(def); err != nil {
				return fmt.Errorf("registry: %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Parse decodes one YAML (or JSON) document into definitions, in name order.
func Parse(data []byte) ([]Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(doc.Forms) == 0 {
		return nil, errors.New("no forms defined")
	}

	names := make([]string, 0, len(doc.Forms))
	for name := range doc.Forms {
		names = append(names, name)
	}
	sortStrings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		def, err := buildDefinition(strings.TrimSpace(name), doc.Forms[name])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func buildDefinition(name string, raw formDocument) (Definition, error) {
	if name == "" {
		return Definition{}, errors.New("empty form name")
	}
	def := Definition{
		Name:        name,
		Title:       sanitizeText(raw.Title),
		Description: sanitizeText(raw.Description),
		Fields:      make([]model.FieldSpec, 0, len(raw.Fields)),
	}

	for i, field := range raw.Fields {
		spec, err := buildSpec(field)
		if err != nil {
			return Definition{}, fmt.Errorf("form %q field %d: %w", name, i, err)
		}
		def.Fields = append(def.Fields, spec)
	}
	return def, nil
}

func buildSpec(raw fieldDocument) (model.FieldSpec, error) {
	fieldType, err := model.ParseFieldType(raw.Type)
	if err != nil {
		return model.FieldSpec{}, err
	}
	required, err := raw.Required.requirement()
	if err != nil {
		return model.FieldSpec{}, fmt.Errorf("required: %w", err)
	}
	invisible, err := raw.Invisible.requirement()
	if err != nil {
		return model.FieldSpec{}, fmt.Errorf("invisible: %w", err)
	}

	id := strings.TrimSpace(raw.ID)
	label := sanitizeText(raw.Label)
	if label == "" {
		label = id
	}

	return model.FieldSpec{
		ID:           id,
		Type:         fieldType,
		Label:        label,
		Required:     required,
		Invisible:    invisible,
		InitialValue: raw.InitialValue,
		MinValue:     raw.MinValue,
		MaxValue:     raw.MaxValue,
	}, nil
}

func isFormFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
