// Package schemafile loads schema definitions from YAML or JSON documents,
// so record layouts can live in configuration instead of Go code. A document
// names its fields in order, each with a type descriptor, plus the optional
// separator and strict_optional settings:
//
//	separator: ","
//	fields:
//	  - name: x
//	    type: int
//	  - name: tag
//	    type: literal
//	    values: [GET, POST]
//	  - name: note
//	    type: string
//	    optional: true
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/parsekit"
	"github.com/reoring/parsekit/schema"
)

type fileSchema struct {
	Separator      string      `yaml:"separator" json:"separator"`
	StrictOptional *bool       `yaml:"strict_optional" json:"strict_optional"`
	Fields         []fileField `yaml:"fields" json:"fields"`
}

type fileField struct {
	Name     string      `yaml:"name" json:"name"`
	Desc     string      `yaml:"desc" json:"desc"`
	Type     string      `yaml:"type" json:"type"`
	Optional bool        `yaml:"optional" json:"optional"`
	Values   []string    `yaml:"values" json:"values"`
	Element  *fileType   `yaml:"element" json:"element"`
	Alts     []fileType  `yaml:"alts" json:"alts"`
	Schema   *fileSchema `yaml:"schema" json:"schema"`
}

func (f fileField) descriptor() fileType {
	return fileType{
		Type:     f.Type,
		Optional: f.Optional,
		Values:   f.Values,
		Element:  f.Element,
		Alts:     f.Alts,
		Schema:   f.Schema,
	}
}

type fileType struct {
	Type     string      `yaml:"type" json:"type"`
	Optional bool        `yaml:"optional" json:"optional"`
	Values   []string    `yaml:"values" json:"values"`
	Element  *fileType   `yaml:"element" json:"element"`
	Alts     []fileType  `yaml:"alts" json:"alts"`
	Schema   *fileSchema `yaml:"schema" json:"schema"`
}

// FromYAML builds a schema from the first document in data.
func FromYAML(data []byte) (*schema.Schema, error) {
	var fs fileSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fs); err != nil {
		return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
	}
	return buildSchema(&fs)
}

// FromYAMLAll builds one schema per document in a multi-document stream, in
// order.
func FromYAMLAll(data []byte) ([]*schema.Schema, error) {
	var out []*schema.Schema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var fs fileSchema
		if err := dec.Decode(&fs); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
		}
		s, err := buildSchema(&fs)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// FromJSON builds a schema from a JSON document.
func FromJSON(data []byte) (*schema.Schema, error) {
	var fs fileSchema
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("schemafile: decode json: %w", err)
	}
	return buildSchema(&fs)
}

func buildSchema(fs *fileSchema) (*schema.Schema, error) {
	b := schema.New()
	if fs.Separator != "" {
		b.Separator(fs.Separator)
	}
	if fs.StrictOptional != nil {
		b.StrictOptional(*fs.StrictOptional)
	}
	for _, f := range fs.Fields {
		t, err := resolveType(f.descriptor(), f.Name)
		if err != nil {
			return nil, err
		}
		step := b.Field(f.Name, t)
		if f.Desc != "" {
			step.Desc(f.Desc)
		}
	}
	return b.Build()
}

func resolveType(ft fileType, field string) (*schema.Type, error) {
	var t *schema.Type
	switch strings.ToLower(ft.Type) {
	case "int", "integer":
		t = schema.Int()
	case "float", "number":
		t = schema.Float()
	case "string", "str":
		t = schema.String()
	case "bool", "boolean":
		t = schema.Bool()
	case "literal":
		if len(ft.Values) == 0 {
			return nil, &parsekit.ConfigError{Field: field, Reason: "literal needs values"}
		}
		t = schema.Literal(ft.Values...)
	case "list":
		if ft.Element == nil {
			return nil, &parsekit.ConfigError{Field: field, Reason: "list needs an element type"}
		}
		elem, err := resolveType(*ft.Element, field)
		if err != nil {
			return nil, err
		}
		t = schema.List(elem)
	case "union":
		if len(ft.Alts) == 0 {
			return nil, &parsekit.ConfigError{Field: field, Reason: "union needs alts"}
		}
		alts := make([]*schema.Type, len(ft.Alts))
		for i, at := range ft.Alts {
			resolved, err := resolveType(at, field)
			if err != nil {
				return nil, err
			}
			alts[i] = resolved
		}
		t = schema.Union(alts...)
	case "nested":
		if ft.Schema == nil {
			return nil, &parsekit.ConfigError{Field: field, Reason: "nested needs a schema"}
		}
		inner, err := buildSchema(ft.Schema)
		if err != nil {
			return nil, err
		}
		t = schema.Nested(inner)
	default:
		return nil, &parsekit.ConfigError{Field: field, Reason: fmt.Sprintf("unknown type %q", ft.Type)}
	}
	if ft.Optional {
		t = schema.Optional(t)
	}
	return t, nil
}
