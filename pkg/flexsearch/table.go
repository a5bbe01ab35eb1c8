package flexsearch

// TableRef names a table (item type) in a FROM clause, optionally aliased.
type TableRef struct {
	Name  string
	Alias string // "" = unaliased

	err error // sticky resolution error, reported at Build
}

// Table returns a reference to a literal table name.
func Table(name string) TableRef { return TableRef{Name: canonical(name)} }

// TableFor resolves model's type to a table reference.
// model may be a value, a pointer, or a reflect.Type.
func TableFor(r TypeResolver, model any) (TableRef, error) {
	name, err := resolve(r, model)
	if err != nil {
		return TableRef{}, err
	}
	return Table(name), nil
}

// As returns a copy of the table qualified by alias.
func (t TableRef) As(alias AliasRef) AliasedTable {
	t.Alias = alias.Name
	return AliasedTable{TableRef: t}
}

// Err returns the error recorded while resolving the table, if any.
func (t TableRef) Err() error { return t.err }

// AliasedTable is a table that carries an alias. Joins only accept
// aliased tables, so an unaliased join target cannot be constructed.
type AliasedTable struct {
	TableRef
}

// AliasRef returns the alias handle of the table.
func (t AliasedTable) AliasRef() AliasRef { return AliasRef{Name: t.Alias} }

// Source is the FROM target of a select clause: a TableRef or an AliasedTable.
type Source interface {
	table() TableRef
}

func (t TableRef) table() TableRef     { return t }
func (t AliasedTable) table() TableRef { return t.TableRef }
