package ir

import "fmt"

// groundAtomKey is the hash-consing key for a ground atom: a predicate
// applied to a specific object tuple.
type groundAtomKey struct {
	predicate int32
	objects   string // objects encoded as a fixed-width string key
}

func encodeObjects(objs []int32) string {
	buf := make([]byte, len(objs)*4)
	for i, o := range objs {
		buf[i*4] = byte(o >> 24)
		buf[i*4+1] = byte(o >> 16)
		buf[i*4+2] = byte(o >> 8)
		buf[i*4+3] = byte(o)
	}
	return string(buf)
}

type atomKey struct {
	predicate int32
	terms     string
}

func encodeTerms(terms []Term) string {
	buf := make([]byte, len(terms)*8)
	for i, t := range terms {
		buf[i*8] = byte(t.Var >> 24)
		buf[i*8+1] = byte(t.Var >> 16)
		buf[i*8+2] = byte(t.Var >> 8)
		buf[i*8+3] = byte(t.Var)
		buf[i*8+4] = byte(t.Obj >> 24)
		buf[i*8+5] = byte(t.Obj >> 16)
		buf[i*8+6] = byte(t.Obj >> 8)
		buf[i*8+7] = byte(t.Obj)
	}
	return string(buf)
}

// Pool is the process-wide hash-consing arena for IR nodes. Every distinct
// value (by content) gets exactly one index; requesting the same content
// twice returns the same index (spec §3.1: "pointer equality is structural
// equality").
type Pool struct {
	objects   []Object
	objByName map[string]int32

	variables []Variable

	predicates   []Predicate
	predByName   map[string]int32

	functions  []FunctionSkeleton
	funcByName map[string]int32

	atoms   []Atom
	atomIdx map[atomKey]int32

	// ground atoms are kept in one flat slice but additionally indexed
	// per predicate-kind into a dense [0,n) range, because the state
	// store/bitset universes are sized per kind (spec §3.3).
	groundAtoms   []GroundAtom
	groundIdx     map[groundAtomKey]int32
	denseByKind   [3][]int32 // PredicateKind -> ordered list of GroundAtom indices
	denseRank     map[int32]int32 // GroundAtom index -> rank within its kind's dense range

	actions []ActionSchema
	axioms  []AxiomSchema
}

// NewPool returns an empty hash-consing arena.
func NewPool() *Pool {
	return &Pool{
		objByName:  make(map[string]int32),
		predByName: make(map[string]int32),
		funcByName: make(map[string]int32),
		atomIdx:    make(map[atomKey]int32),
		groundIdx:  make(map[groundAtomKey]int32),
		denseRank:  make(map[int32]int32),
	}
}

// InternObject interns a named object, returning its stable index.
func (p *Pool) InternObject(name string) int32 {
	if idx, ok := p.objByName[name]; ok {
		return idx
	}
	idx := int32(len(p.objects))
	p.objects = append(p.objects, Object{Index: idx, Name: name})
	p.objByName[name] = idx
	return idx
}

// Object returns the object at idx.
func (p *Pool) Object(idx int32) Object { return p.objects[idx] }

// NumObjects returns how many distinct objects have been interned.
func (p *Pool) NumObjects() int { return len(p.objects) }

// NewVariable allocates a fresh schema parameter. Variables are not
// content-addressed across schemas (each schema owns its own parameter
// list, per spec §3.1's "Position is 0-based within its enclosing schema"),
// so this simply appends.
func (p *Pool) NewVariable(name string, position int) int32 {
	idx := int32(len(p.variables))
	p.variables = append(p.variables, Variable{Index: idx, Name: name, Position: position})
	return idx
}

// Variable returns the variable at idx.
func (p *Pool) Variable(idx int32) Variable { return p.variables[idx] }

// InternPredicate interns a predicate symbol by name; re-interning the same
// name with a different kind/arity is a contract violation (predicate kind
// is fixed at normalisation time, spec §3.1) and panics.
func (p *Pool) InternPredicate(name string, arity int, kind PredicateKind, vars []int32) int32 {
	if idx, ok := p.predByName[name]; ok {
		existing := p.predicates[idx]
		if existing.Arity != arity || existing.Kind != kind {
			panic(fmt.Sprintf("ir: predicate %q re-interned with a different arity/kind", name))
		}
		return idx
	}
	idx := int32(len(p.predicates))
	p.predicates = append(p.predicates, Predicate{Index: idx, Name: name, Arity: arity, Kind: kind, Variables: vars})
	p.predByName[name] = idx
	return idx
}

// Predicate returns the predicate at idx.
func (p *Pool) Predicate(idx int32) Predicate { return p.predicates[idx] }

// NumPredicates returns how many distinct predicates have been interned.
func (p *Pool) NumPredicates() int { return len(p.predicates) }

// InternFunctionSkeleton interns a numeric function symbol by name.
func (p *Pool) InternFunctionSkeleton(name string, arity int, kind FunctionKind, params []int32) int32 {
	if idx, ok := p.funcByName[name]; ok {
		return idx
	}
	idx := int32(len(p.functions))
	p.functions = append(p.functions, FunctionSkeleton{Index: idx, Name: name, Arity: arity, Kind: kind, Parameters: params})
	p.funcByName[name] = idx
	return idx
}

// FunctionSkeleton returns the function skeleton at idx.
func (p *Pool) FunctionSkeleton(idx int32) FunctionSkeleton { return p.functions[idx] }

// NumFunctionSkeletons returns how many distinct function skeletons have
// been interned.
func (p *Pool) NumFunctionSkeletons() int { return len(p.functions) }

// FindFunctionSkeleton returns the index of the function skeleton named
// name, or -1 if none has been interned under that name.
func (p *Pool) FindFunctionSkeleton(name string) int32 {
	if idx, ok := p.funcByName[name]; ok {
		return idx
	}
	return -1
}

// InternAtom interns a lifted atom (predicate applied to a term tuple).
func (p *Pool) InternAtom(predicate int32, terms []Term) int32 {
	key := atomKey{predicate: predicate, terms: encodeTerms(terms)}
	if idx, ok := p.atomIdx[key]; ok {
		return idx
	}
	idx := int32(len(p.atoms))
	p.atoms = append(p.atoms, Atom{Index: idx, Predicate: predicate, Terms: terms})
	p.atomIdx[key] = idx
	return idx
}

// Atom returns the lifted atom at idx.
func (p *Pool) Atom(idx int32) Atom { return p.atoms[idx] }

// InternGroundAtom interns a ground atom, assigning it the next dense index
// within its predicate's kind if it is new (spec §3.1).
func (p *Pool) InternGroundAtom(predicate int32, objects []int32) int32 {
	key := groundAtomKey{predicate: predicate, objects: encodeObjects(objects)}
	if idx, ok := p.groundIdx[key]; ok {
		return idx
	}
	idx := int32(len(p.groundAtoms))
	p.groundAtoms = append(p.groundAtoms, GroundAtom{Index: idx, Predicate: predicate, Objects: objects})
	p.groundIdx[key] = idx

	kind := p.predicates[predicate].Kind
	rank := int32(len(p.denseByKind[kind]))
	p.denseByKind[kind] = append(p.denseByKind[kind], idx)
	p.denseRank[idx] = rank

	return idx
}

// GroundAtom returns the ground atom at idx.
func (p *Pool) GroundAtom(idx int32) GroundAtom { return p.groundAtoms[idx] }

// DenseRank returns idx's position within the dense [0,n) index space of
// its predicate kind (used to size per-kind bitset universes).
func (p *Pool) DenseRank(idx int32) int32 { return p.denseRank[idx] }

// NumGroundAtomsOfKind returns the size of the dense index space for kind.
func (p *Pool) NumGroundAtomsOfKind(kind PredicateKind) int { return len(p.denseByKind[kind]) }

// NewAction appends a fully-built action schema and returns its index.
func (p *Pool) NewAction(a ActionSchema) int32 {
	a.Index = int32(len(p.actions))
	p.actions = append(p.actions, a)
	return a.Index
}

// Action returns the action schema at idx.
func (p *Pool) Action(idx int32) *ActionSchema { return &p.actions[idx] }

// NewAxiom appends a fully-built axiom schema and returns its index.
func (p *Pool) NewAxiom(a AxiomSchema) int32 {
	a.Index = int32(len(p.axioms))
	p.axioms = append(p.axioms, a)
	return a.Index
}

// Axiom returns the axiom schema at idx.
func (p *Pool) Axiom(idx int32) *AxiomSchema { return &p.axioms[idx] }

// NumAxioms returns how many axiom schemas have been interned.
func (p *Pool) NumAxioms() int { return len(p.axioms) }

// NumActions returns how many action schemas have been interned.
func (p *Pool) NumActions() int { return len(p.actions) }
