package filter

// Op is a condition operator. The set is closed; Parse rejects anything
// else, and Eval treats the zero value as never matching.
type Op string

const (
	OpEq         Op = "eq"
	OpGt         Op = "gt"
	OpLt         Op = "lt"
	OpGte        Op = "gte"
	OpLte        Op = "lte"
	OpContains   Op = "contains"
	OpStartsWith Op = "startsWith"
	OpEndsWith   Op = "endsWith"
)

// Filter is the boolean expression tree evaluated by find. It is a closed
// sum type: Condition, And, and Or are the only variants.
type Filter interface {
	isFilter()
}

// Condition tests one field of a document against a literal value. Field
// is a dotted path into nested JSON objects.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// And is true iff every child is true. An empty And is true.
type And struct {
	Children []Filter
}

// Or is true iff at least one child is true. An empty Or is false.
type Or struct {
	Children []Filter
}

func (Condition) isFilter() {}
func (And) isFilter()       {}
func (Or) isFilter()        {}
