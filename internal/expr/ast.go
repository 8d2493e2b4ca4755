package expr

// Node is a parsed condition.
//
// This is a sealed interface - only types in this package implement it.
//
// Node types:
//   - Compare: a single binary comparison
//   - And: all terms must hold
//   - Or: any term must hold
type Node interface {
	exprNode() // Marker method - seals interface to this package
}

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "=="
	OpNeq Op = "!="
	OpGt  Op = ">"
	OpLt  Op = "<"
	OpGte Op = ">="
	OpLte Op = "<="
)

// validOps is the set of recognized operator runs.
var validOps = map[string]Op{
	"==": OpEq,
	"!=": OpNeq,
	">":  OpGt,
	"<":  OpLt,
	">=": OpGte,
	"<=": OpLte,
}

// Compare is one comparison between two operands.
// Left and Right are trimmed raw text, placeholders still unresolved.
type Compare struct {
	Left  string
	Op    Op
	Right string
}

func (Compare) exprNode() {}

// And holds when every term holds.
type And struct {
	Terms []Node
}

func (And) exprNode() {}

// Or holds when at least one term holds.
type Or struct {
	Terms []Node
}

func (Or) exprNode() {}
