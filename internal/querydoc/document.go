package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// File is the root of a query document file.
type File struct {
	Queries []Document `json:"queries" yaml:"queries"`
}

// Document declares one query.
type Document struct {
	// Name identifies the query in output and errors. Unique within a file.
	Name string `json:"name" yaml:"name"`

	// Description is free text carried into output.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Select  Select      `json:"select" yaml:"select"`
	Where   []Predicate `json:"where,omitempty" yaml:"where,omitempty"`
	GroupBy []string    `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Having  []Predicate `json:"having,omitempty" yaml:"having,omitempty"`
	OrderBy []Order     `json:"order_by,omitempty" yaml:"order_by,omitempty"`
	Limit   int         `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Select declares the SELECT ... FROM part. Exactly one source is set:
// table, type, from_query, or union.
type Select struct {
	Table     string     `json:"table,omitempty" yaml:"table,omitempty"`
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"`
	FromQuery *Document  `json:"from_query,omitempty" yaml:"from_query,omitempty"`
	Union     []Document `json:"union,omitempty" yaml:"union,omitempty"`
	UnionAll  bool       `json:"union_all,omitempty" yaml:"union_all,omitempty"`

	Alias    string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Distinct bool    `json:"distinct,omitempty" yaml:"distinct,omitempty"`
	Fields   []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Joins    []Join  `json:"joins,omitempty" yaml:"joins,omitempty"`
}

// Field is one select-list entry.
type Field struct {
	Attr     string `json:"attr" yaml:"attr"`
	Func     string `json:"func,omitempty" yaml:"func,omitempty"`
	Distinct bool   `json:"distinct,omitempty" yaml:"distinct,omitempty"`

	// Result is the result type tag: string, int, long, float, double, bool, time, date.
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
}

// Join declares one join. On holds the left and right attributes of the
// equality, in that order.
type Join struct {
	Kind  string   `json:"kind,omitempty" yaml:"kind,omitempty"` // inner (default), left, right
	Outer bool     `json:"outer,omitempty" yaml:"outer,omitempty"`
	Table string   `json:"table,omitempty" yaml:"table,omitempty"`
	Type  string   `json:"type,omitempty" yaml:"type,omitempty"`
	Alias string   `json:"alias" yaml:"alias"`
	On    []string `json:"on" yaml:"on"`
}

// Predicate is one link of a WHERE or HAVING chain.
type Predicate struct {
	// Conj joins the predicate to the previous one: and (default) or or.
	// Ignored on the first predicate of a chain.
	Conj string `json:"conj,omitempty" yaml:"conj,omitempty"`

	Attr string `json:"attr,omitempty" yaml:"attr,omitempty"`
	Func string `json:"func,omitempty" yaml:"func,omitempty"`
	Op   string `json:"op" yaml:"op"`

	// Exactly one right-hand side applies, depending on Op.
	Value    any            `json:"value,omitempty" yaml:"value,omitempty"`
	Values   []any          `json:"values,omitempty" yaml:"values,omitempty"`
	Column   string         `json:"column,omitempty" yaml:"column,omitempty"`
	Subquery *Document      `json:"subquery,omitempty" yaml:"subquery,omitempty"`
	Raw      string         `json:"raw,omitempty" yaml:"raw,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	// ValueType converts Value/Values with a result type tag before binding.
	ValueType string `json:"value_type,omitempty" yaml:"value_type,omitempty"`

	Open  bool `json:"open,omitempty" yaml:"open,omitempty"`
	Close bool `json:"close,omitempty" yaml:"close,omitempty"`
}

// Order is one ORDER BY key.
type Order struct {
	Attr string `json:"attr" yaml:"attr"`
	Func string `json:"func,omitempty" yaml:"func,omitempty"`
	Desc bool   `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// Format identifies a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q: must be .yaml, .yml or .cue", filepath.Ext(path))
	}
}

// Load reads and parses a document file.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return Parse(data, format, path)
}

// Parse decodes data and validates the result. filename is used in
// error positions only.
func Parse(data []byte, format Format, filename string) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		// Reject unknown fields so typos fail loudly
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("failed to parse YAML: document is empty")
			}
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatCUE:
		v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, formatCUEError(err)
		}
		if err := v.Decode(&f); err != nil {
			return nil, formatCUEError(err)
		}
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}

	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structure of every document in f. It does not
// resolve types or build queries; Compile does that.
func Validate(f *File) error {
	if len(f.Queries) == 0 {
		return &CompileError{Field: "queries", Message: "at least one query is required"}
	}
	seen := make(map[string]bool, len(f.Queries))
	for i, doc := range f.Queries {
		if doc.Name == "" {
			return &CompileError{Field: fmt.Sprintf("queries[%d].name", i), Message: "name is required"}
		}
		if seen[doc.Name] {
			return &CompileError{Query: doc.Name, Field: "name", Message: "duplicate query name"}
		}
		seen[doc.Name] = true
		if err := validateSelect(doc.Name, "select", doc.Select); err != nil {
			return err
		}
	}
	return nil
}

func validateSelect(query, path string, s Select) error {
	sources := 0
	for _, set := range []bool{s.Table != "", s.Type != "", s.FromQuery != nil, len(s.Union) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return &CompileError{Query: query, Field: path, Message: "exactly one of table, type, from_query or union is required"}
	}
	if len(s.Union) > 0 && len(s.Union) != 2 {
		return &CompileError{Query: query, Field: path + ".union", Message: "union takes exactly two queries"}
	}
	if s.FromQuery != nil {
		if err := validateSelect(query, path+".from_query.select", s.FromQuery.Select); err != nil {
			return err
		}
	}
	for i, u := range s.Union {
		if err := validateSelect(query, fmt.Sprintf("%s.union[%d].select", path, i), u.Select); err != nil {
			return err
		}
	}
	for i, j := range s.Joins {
		jp := fmt.Sprintf("%s.joins[%d]", path, i)
		if (j.Table == "") == (j.Type == "") {
			return &CompileError{Query: query, Field: jp, Message: "exactly one of table or type is required"}
		}
		if j.Alias == "" {
			return &CompileError{Query: query, Field: jp + ".alias", Message: "joined tables must be aliased"}
		}
		if len(j.On) != 2 {
			return &CompileError{Query: query, Field: jp + ".on", Message: "on takes exactly two attributes"}
		}
	}
	return nil
}
