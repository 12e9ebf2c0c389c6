package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema is the subset of JSON Schema 2020-12 the generator emits.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Ref                  string                 `json:"$ref,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Enum                 []any                  `json:"enum,omitempty"`
	Const                any                    `json:"const,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	Minimum              *int64                 `json:"minimum,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MaxLength            *int                   `json:"maxLength,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	Defs                 map[string]*JSONSchema `json:"$defs,omitempty"`
}

const draft = "https://json-schema.org/draft/2020-12/schema"

// Generator builds JSON schemas from Go struct types using their json,
// description and schema tags. Named struct types other than the root are
// emitted once under $defs and referenced, so recursive types terminate.
type Generator struct {
	baseID string
	defs   map[string]*JSONSchema
}

type Option func(*Generator)

// WithBaseID sets the prefix of the root $id. The lowercased type name is appended.
func WithBaseID(base string) Option {
	return func(g *Generator) {
		g.baseID = strings.TrimSuffix(base, "/")
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the schema of the type of v.
func (g *Generator) Generate(v any) (*JSONSchema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("cannot generate schema for nil")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("root type must be a struct, got %s", t.Kind())
	}

	g.defs = make(map[string]*JSONSchema)
	root, err := g.structSchema(t)
	if err != nil {
		return nil, err
	}
	root.Schema = draft
	root.Title = t.Name()
	if g.baseID != "" {
		root.ID = fmt.Sprintf("%s/%s", g.baseID, strings.ToLower(t.Name()))
	}
	if len(g.defs) > 0 {
		root.Defs = g.defs
	}
	return root, nil
}

// GenerateJSON returns the indented schema document for the type of v.
func (g *Generator) GenerateJSON(v any) ([]byte, error) {
	s, err := g.Generate(v)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return b, nil
}

func (g *Generator) typeSchema(t reflect.Type) (*JSONSchema, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.refSchema(t)
	case reflect.Slice, reflect.Array:
		items, err := g.typeSchema(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) refSchema(t reflect.Type) (*JSONSchema, error) {
	name := t.Name()
	if name == "" {
		return g.structSchema(t)
	}
	ref := &JSONSchema{Ref: "#/$defs/" + name}
	if _, ok := g.defs[name]; ok {
		return ref, nil
	}
	// placeholder stops recursion while the struct is being built
	g.defs[name] = &JSONSchema{}
	s, err := g.structSchema(t)
	if err != nil {
		return nil, err
	}
	g.defs[name] = s
	return ref, nil
}

func (g *Generator) structSchema(t reflect.Type) (*JSONSchema, error) {
	closed := false
	s := &JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]*JSONSchema),
		AdditionalProperties: &closed,
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := fieldName(field)
		if !ok {
			continue
		}

		fs, err := g.typeSchema(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if desc := field.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		required := applyTag(field.Tag.Get("schema"), fs)

		s.Properties[name] = fs
		if required {
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:], true
}

// applyTag reads a comma separated schema tag such as
// `schema:"required,enum=a|b,pattern=^x$"` into s and reports whether the
// field is required.
func applyTag(tag string, s *JSONSchema) bool {
	required := false
	if tag == "" {
		return required
	}
	for _, part := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "required":
			required = true
		case "enum":
			for _, e := range strings.Split(val, "|") {
				s.Enum = append(s.Enum, e)
			}
		case "const":
			s.Const = val
		case "pattern":
			s.Pattern = val
		case "minimum":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				s.Minimum = &n
			}
		case "minLength":
			if n, err := strconv.Atoi(val); err == nil {
				s.MinLength = &n
			}
		case "maxLength":
			if n, err := strconv.Atoi(val); err == nil {
				s.MaxLength = &n
			}
		case "minItems":
			if n, err := strconv.Atoi(val); err == nil {
				s.MinItems = &n
			}
		}
	}
	return required
}
