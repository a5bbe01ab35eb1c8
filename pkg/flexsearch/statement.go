package flexsearch

import "reflect"

// Statement is the built artifact handed to the host execution layer.
//
// Every placeholder in Query has exactly one entry in Params. Params are
// ordered by first appearance in Query; positional dialects repeat a
// parameter each time its placeholder appears.
type Statement struct {
	Query       string
	Params      []Param
	ResultTypes []reflect.Type // typed fields of the outermost SELECT, in column order
	Count       int            // row limit; zero means unlimited
	Dialect     string
}

// Parameters returns the name -> value view of Params.
func (s *Statement) Parameters() map[string]any {
	out := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		out[p.Name] = p.Value
	}
	return out
}

// Args returns the parameter values in order, for positional binding.
func (s *Statement) Args() []any {
	out := make([]any, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Value
	}
	return out
}
