// Package ir is the hash-consed intermediate representation consumed by the
// planning core (spec §3.1): domain/problem objects, predicates, actions and
// axioms, each addressed by a dense 32-bit index inside a process-wide Pool.
//
// Per spec §9's design note on the source's cyclic object graphs (domain ↔
// action ↔ predicate), every IR node here is a plain value stored in a flat
// slice inside Pool; cross-references between nodes are indices into those
// slices, never pointers, so pointer equality is never required for
// structural equality — index equality already is (mirrors gokando's own
// index-addressed variable/value tables in term_utils.go/domain.go, gene-
// ralised from finite-domain values to arbitrary IR nodes).
package ir

// PredicateKind distinguishes where a predicate's extension comes from.
type PredicateKind uint8

const (
	Static PredicateKind = iota
	Fluent
	Derived
)

func (k PredicateKind) String() string {
	switch k {
	case Static:
		return "static"
	case Fluent:
		return "fluent"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// FunctionKind distinguishes a function skeleton's role.
type FunctionKind uint8

const (
	FuncStatic FunctionKind = iota
	FuncFluent
	FuncAuxiliary
)

// Object is a domain or problem constant.
type Object struct {
	Index int32
	Name  string
}

// Variable is a schema parameter; Position is 0-based within its enclosing
// schema and is the only binding key the grounder uses (spec §3.1).
type Variable struct {
	Index    int32
	Name     string
	Position int
}

// Term is either a Variable (Var >= 0) or an Object (Obj >= 0); exactly one
// of the two is valid, mirroring the lifted-vs-ground duality of atoms
// without needing an interface allocation per term.
type Term struct {
	Var int32 // -1 if this term is an object
	Obj int32 // -1 if this term is a variable
}

// IsVariable reports whether t refers to a schema parameter.
func (t Term) IsVariable() bool { return t.Var >= 0 }

// Predicate is a lifted predicate symbol.
type Predicate struct {
	Index     int32
	Name      string
	Arity     int
	Kind      PredicateKind
	Variables []int32 // parameter Variable indices, Position-ordered
}

// FunctionSkeleton is a lifted numeric function symbol.
type FunctionSkeleton struct {
	Index      int32
	Name       string
	Arity      int
	Kind       FunctionKind
	Parameters []int32
}

// Atom is a lifted predicate application.
type Atom struct {
	Index     int32
	Predicate int32
	Terms     []Term
}

// Literal is an atom with a polarity.
type Literal struct {
	Atom    int32
	Negated bool
}

// GroundAtom is a predicate applied to a fully-ground object tuple, assigned
// a dense index per predicate kind (spec §3.1: "Assigned a dense index per
// kind" — the Pool keeps one counter per PredicateKind so fluent, static and
// derived ground atoms each get their own compact [0,n) index space, which
// is what state/bitset universes are sized against).
type GroundAtom struct {
	Index     int32
	Predicate int32
	Objects   []int32
}

// GroundLiteral is a ground atom with a polarity.
type GroundLiteral struct {
	Atom    int32
	Negated bool
}

// NumericConstraint is a comparison between a function value expression and
// a constant, evaluated during binding generation and ground-action
// condition checks. Op follows the usual relational operators.
type NumericOp uint8

const (
	OpEq NumericOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// NumericConstraint constrains a function skeleton applied to a term tuple
// against a constant value.
type NumericConstraint struct {
	Function int32
	Terms    []Term
	Op       NumericOp
	Value    float64
}

// NumericEffect assigns (or increments/decrements/scales) a fluent
// function's value.
type NumericEffectOp uint8

const (
	NumAssign NumericEffectOp = iota
	NumIncrease
	NumDecrease
	NumScaleUp
	NumScaleDown
)

// NumericEffect is a single numeric update in a conjunctive effect.
type NumericEffect struct {
	Function int32
	Terms    []Term
	Op       NumericEffectOp
	Value    float64
}

// ConjunctiveCondition is the body of an action or axiom schema after
// normalisation: existentially quantified, split by predicate kind because
// the binding generator (pkg/planning/binding) treats static, fluent and
// derived literals through different assignment-set machinery (spec §4.2).
type ConjunctiveCondition struct {
	Parameters []int32 // Variable indices, Position-ordered

	StaticPositive  []Literal
	StaticNegative  []Literal
	FluentPositive  []Literal
	FluentNegative  []Literal
	DerivedPositive []Literal
	DerivedNegative []Literal

	Numeric []NumericConstraint
}

// ConjunctiveEffect is an unconditional effect: fluent adds/deletes plus
// numeric updates.
type ConjunctiveEffect struct {
	Positive []Literal
	Negative []Literal
	Numeric  []NumericEffect
}

// ConditionalEffect is a conjunctive condition guarding a conjunctive
// effect; Arity counts the extra (synthetic) quantified parameters beyond
// the enclosing schema's own, per spec §3.1.
type ConditionalEffect struct {
	Condition ConjunctiveCondition
	Effect    ConjunctiveEffect
	Arity     int
}

// ActionSchema is a lifted, normalised action.
//
// OriginalArity distinguishes the user-declared parameters (those that
// belong in the plan file per spec §6) from synthetic parameters introduced
// by normalisation (e.g. splitting a disjunctive precondition).
type ActionSchema struct {
	Index             int32
	Name              string
	Parameters        []int32
	OriginalArity     int
	Precondition      ConjunctiveCondition
	Effect            ConjunctiveEffect
	ConditionalEffects []ConditionalEffect
}

// AxiomSchema is a lifted, normalised axiom: body implies a single positive
// derived head literal.
type AxiomSchema struct {
	Index   int32
	Name    string
	Parameters []int32
	Body    ConjunctiveCondition
	Head    Literal // always over a Derived predicate, always positive
}

// Domain collects a PDDL domain's lifted symbols.
type Domain struct {
	Name       string
	Predicates []int32
	Functions  []int32
	Actions    []int32
	Axioms     []int32
}

// Metric selects whether the problem minimises or maximises its cost
// function; the planning core only consumes total-cost minimisation (spec
// §4.7), but the field is carried for completeness of the data contract.
type Metric struct {
	Minimize bool
	Function int32 // -1 if no metric declared
}

// Problem collects a PDDL problem's ground facts and the domain it refers
// to.
type Problem struct {
	Name        string
	Domain      int32
	Objects     []int32
	InitStatic  []GroundLiteral
	InitFluent  []GroundLiteral
	InitNumeric map[int32]float64 // function index -> initial value
	Goal        ConjunctiveCondition
	Metric      Metric
}
