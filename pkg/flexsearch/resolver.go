package flexsearch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
)

// TypeResolver maps a domain model type to its storage (table) name.
//
// Implementations return an error matched by IsInvalidType when the type
// carries no mapping. The resolver is supplied by the host environment.
type TypeResolver interface {
	ResolveType(t reflect.Type) (string, error)
}

// TypeResolverFunc adapts a function to TypeResolver.
type TypeResolverFunc func(t reflect.Type) (string, error)

// ResolveType calls f(t).
func (f TypeResolverFunc) ResolveType(t reflect.Type) (string, error) { return f(t) }

// ItemType is implemented by models that know their own type code.
type ItemType interface {
	TypeCode() string
}

// TypeCodes resolves models implementing ItemType. Value and pointer
// receivers are both honoured.
var TypeCodes TypeResolver = TypeResolverFunc(resolveTypeCode)

var itemType = reflect.TypeFor[ItemType]()

func resolveTypeCode(t reflect.Type) (string, error) {
	for _, candidate := range []reflect.Type{t, reflect.PointerTo(t)} {
		if !candidate.Implements(itemType) {
			continue
		}
		var v reflect.Value
		if candidate.Kind() == reflect.Pointer {
			v = reflect.New(candidate.Elem())
		} else {
			v = reflect.Zero(candidate)
		}
		if code := v.Interface().(ItemType).TypeCode(); code != "" {
			return code, nil
		}
		break
	}
	return "", NewInvalidType(t.String())
}

// MapResolver resolves types from an explicit table.
type MapResolver map[reflect.Type]string

// ResolveType looks t up in the map.
func (m MapResolver) ResolveType(t reflect.Type) (string, error) {
	if name, ok := m[t]; ok && name != "" {
		return name, nil
	}
	return "", NewInvalidType(t.String())
}

// ConventionResolver derives the table name from the Go type name:
// ProductModel -> Product, or Products with Plural set.
type ConventionResolver struct {
	Suffix string // stripped from the type name; "Model" when empty
	Plural bool   // pluralise with English inflection rules
}

// ResolveType applies the naming convention to t.
func (c ConventionResolver) ResolveType(t reflect.Type) (string, error) {
	name := t.Name()
	if name == "" {
		return "", NewInvalidType(t.String())
	}
	return c.TableName(name), nil
}

// TableName applies the naming convention to a bare type name.
func (c ConventionResolver) TableName(typeName string) string {
	suffix := c.Suffix
	if suffix == "" {
		suffix = "Model"
	}
	name := typeName
	if trimmed := strings.TrimSuffix(name, suffix); trimmed != "" {
		name = trimmed
	}
	if c.Plural {
		name = inflection.Plural(name)
	}
	return name
}

// ChainResolver tries each resolver in order; the first success wins.
type ChainResolver []TypeResolver

// ResolveType returns the first resolved name. If every resolver fails
// with an invalid type error the result is a single invalid type error;
// any other failure is returned as is.
func (c ChainResolver) ResolveType(t reflect.Type) (string, error) {
	for _, r := range c {
		name, err := r.ResolveType(t)
		if err == nil {
			return name, nil
		}
		if !IsInvalidType(err) {
			return "", err
		}
	}
	return "", NewInvalidType(t.String())
}

// resolve normalizes model to a reflect.Type and resolves it.
func resolve(r TypeResolver, model any) (string, error) {
	if r == nil {
		return "", errors.New("no type resolver configured")
	}
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	if t == nil {
		return "", NewInvalidType("<nil>")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name, err := r.ResolveType(t)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", t, err)
	}
	return name, nil
}
