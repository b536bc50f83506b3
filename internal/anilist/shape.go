// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Vars binds GraphQL variable names to values.
type Vars map[string]any

// varSpec is the declared type of one operation variable.
type varSpec struct {
	typeName string
	nonNull  bool
	list     bool
}

// Shape is a named, pre-parsed GraphQL operation together with its declared
// variable schema. Shapes are built once at package init; variables are
// checked against the schema before any request leaves the process.
type Shape struct {
	Name     string
	Document string
	vars     map[string]varSpec
}

// NewShape parses document and extracts the variable definitions of its
// single operation.
func NewShape(name, document string) (*Shape, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: document})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("%s: expected exactly one operation, found %d", name, len(doc.Operations))
	}

	op := doc.Operations[0]
	vars := make(map[string]varSpec, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		spec := varSpec{nonNull: def.Type.NonNull, typeName: def.Type.NamedType}
		if def.Type.Elem != nil {
			spec.list = true
			spec.typeName = def.Type.Elem.NamedType
		}
		vars[def.Variable] = spec
	}
	return &Shape{Name: name, Document: document, vars: vars}, nil
}

// MustShape is NewShape for package-level declarations.
func MustShape(name, document string) *Shape {
	s, err := NewShape(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Variables returns the declared variable names in sorted order.
func (s *Shape) Variables() []string {
	names := make([]string, 0, len(s.vars))
	for n := range s.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks vars against the declared schema: every bound name must be
// declared, every non-null variable must be bound, and each value must have
// a Go kind compatible with its GraphQL type.
func (s *Shape) Validate(vars Vars) error {
	for name, v := range vars {
		spec, ok := s.vars[name]
		if !ok {
			return fmt.Errorf("%s: undeclared variable $%s", s.Name, name)
		}
		if v == nil {
			if spec.nonNull {
				return fmt.Errorf("%s: variable $%s must not be null", s.Name, name)
			}
			continue
		}
		if !compatible(spec, v) {
			return fmt.Errorf("%s: variable $%s has Go type %T, want %s", s.Name, name, v, spec.typeName)
		}
	}
	for name, spec := range s.vars {
		if _, ok := vars[name]; !ok && spec.nonNull {
			return fmt.Errorf("%s: missing required variable $%s", s.Name, name)
		}
	}
	return nil
}

func compatible(spec varSpec, v any) bool {
	rv := reflect.ValueOf(v)
	if spec.list {
		if rv.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !scalarCompatible(spec.typeName, rv.Index(i)) {
				return false
			}
		}
		return true
	}
	return scalarCompatible(spec.typeName, rv)
}

func scalarCompatible(typeName string, rv reflect.Value) bool {
	k := rv.Kind()
	isInt := k >= reflect.Int && k <= reflect.Int64
	switch typeName {
	case "Int":
		// GraphQL Int is a signed 32-bit integer.
		return isInt && rv.Int() >= math.MinInt32 && rv.Int() <= math.MaxInt32
	case "Float":
		return isInt || k == reflect.Float32 || k == reflect.Float64
	case "Boolean":
		return k == reflect.Bool
	case "ID":
		return isInt || k == reflect.String
	default:
		// String and enums (MediaType, MediaSort...) travel as JSON strings.
		return k == reflect.String
	}
}
