package notation

import (
	"fmt"

	"varan/clause"
	"varan/term"
)

// Reader turns parsed syntax into interned clauses. Symbols are
// declared on first use, mono-sorted over the bank's individual type;
// an atom in literal position gets the proposition type instead. Using
// one name at two arities is a signature conflict.
type Reader struct {
	bank *term.Bank
	db   *clause.DB
}

func NewReader(bank *term.Bank, db *clause.DB) *Reader {
	return &Reader{bank: bank, db: db}
}

// Problem parses a whole problem and interns every clause as an input.
func (r *Reader) Problem(src string) ([]*clause.Clause, error) {
	ast, err := ParseProblem(src)
	if err != nil {
		return nil, err
	}
	out := make([]*clause.Clause, 0, len(ast.Clauses))
	for _, cn := range ast.Clauses {
		c, err := r.buildClause(cn)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Clause parses a single clause.
func (r *Reader) Clause(src string) (*clause.Clause, error) {
	cs, err := r.Problem(src)
	if err != nil {
		return nil, err
	}
	if len(cs) != 1 {
		return nil, fmt.Errorf("notation: expected one clause, got %d", len(cs))
	}
	return cs[0], nil
}

// Term parses a single term; the returned map names the variables it
// allocated.
func (r *Reader) Term(src string) (*term.Term, map[string]*term.Term, error) {
	w, err := termParser.ParseString("", src)
	if err != nil {
		return nil, nil, err
	}
	vars := make(map[string]*term.Term)
	t, err := r.buildTerm(w.Term, r.bank.Indiv, vars)
	if err != nil {
		return nil, nil, err
	}
	return t, vars, nil
}

func (r *Reader) buildClause(cn *ClauseNode) (*clause.Clause, error) {
	vars := make(map[string]*term.Term)
	lits := make([]clause.Literal, 0, len(cn.Lits))
	for _, ln := range cn.Lits {
		l, err := r.buildLit(ln, vars)
		if err != nil {
			return nil, err
		}
		lits = append(lits, l)
	}
	return r.db.Make(lits, clause.NewInput()), nil
}

func (r *Reader) buildLit(ln *LitNode, vars map[string]*term.Term) (clause.Literal, error) {
	if ln.Op == "" {
		atom, err := r.buildTerm(ln.Left, r.bank.Prop, vars)
		if err != nil {
			return clause.Literal{}, err
		}
		return clause.MkProp(r.bank, atom, !ln.Neg)
	}
	l, err := r.buildTerm(ln.Left, r.bank.Indiv, vars)
	if err != nil {
		return clause.Literal{}, err
	}
	t, err := r.buildTerm(ln.Right, r.bank.Indiv, vars)
	if err != nil {
		return clause.Literal{}, err
	}
	// A tilde flips the sign of the operator.
	if (ln.Op == "=") != ln.Neg {
		return clause.MkEq(l, t)
	}
	return clause.MkNeq(l, t)
}

func (r *Reader) buildTerm(n Node, result *term.Type, vars map[string]*term.Term) (*term.Term, error) {
	switch n := n.(type) {
	case VarNode:
		if t, ok := vars[n.Name]; ok {
			return t, nil
		}
		t := r.bank.Var(len(vars), r.bank.Indiv)
		vars[n.Name] = t
		return t, nil
	case AtomNode:
		s, err := r.declare(n.Name, 0, result)
		if err != nil {
			return nil, err
		}
		return r.bank.Const(s), nil
	case AppNode:
		s, err := r.declare(n.Fn, len(n.Args), result)
		if err != nil {
			return nil, err
		}
		args := make([]*term.Term, len(n.Args))
		for i, a := range n.Args {
			args[i], err = r.buildTerm(a, r.bank.Indiv, vars)
			if err != nil {
				return nil, err
			}
		}
		return r.bank.App(r.bank.Const(s), args)
	}
	return nil, fmt.Errorf("notation: unknown node %T", n)
}

func (r *Reader) declare(name string, arity int, result *term.Type) (term.Sym, error) {
	ty := result
	if arity > 0 {
		args := make([]*term.Type, arity)
		for i := range args {
			args[i] = r.bank.Indiv
		}
		ty = r.bank.Fn(args, result)
	}
	return r.bank.Declare(name, ty, 0)
}
