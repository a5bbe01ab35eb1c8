package flexsearch

// Direction is an ORDER BY direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// Ordering is one ORDER BY key.
type Ordering struct {
	Ref Ref
	Dir Direction
}

// Asc orders by ref ascending.
func Asc(ref Ref) Ordering { return Ordering{Ref: ref, Dir: ASC} }

// Desc orders by ref descending.
func Desc(ref Ref) Ordering { return Ordering{Ref: ref, Dir: DESC} }
