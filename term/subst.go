package term

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInconsistentBinding = errors.New("inconsistent binding")

// Scoped pairs a term with the scope it lives in. The same variable in two
// scopes denotes two different instances.
type Scoped struct {
	T     *Term
	Scope int
}

type bindKey struct {
	scope int
	id    int
}

// Subst maps scoped variables to scoped terms. Bindings accumulate; a
// variable is never rebound to a different value.
type Subst struct {
	bindings map[bindKey]Scoped
}

func NewSubst() *Subst {
	return &Subst{bindings: make(map[bindKey]Scoped)}
}

func (s *Subst) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bindings)
}

func (s *Subst) IsEmpty() bool { return s.Len() == 0 }

func (s *Subst) Clone() *Subst {
	out := NewSubst()
	if s != nil {
		for k, v := range s.bindings {
			out.bindings[k] = v
		}
	}
	return out
}

// Lookup reports the direct binding of (id, scope), without chasing
// chains.
func (s *Subst) Lookup(id, scope int) (Scoped, bool) {
	if s == nil {
		return Scoped{}, false
	}
	v, ok := s.bindings[bindKey{scope, id}]
	return v, ok
}

// Deref follows variable chains from (t, scope) until it reaches either a
// non-variable term or an unbound variable.
func (s *Subst) Deref(t *Term, scope int) (*Term, int) {
	for t.kind == KindVar {
		v, ok := s.Lookup(t.index, scope)
		if !ok {
			return t, scope
		}
		t, scope = v.T, v.Scope
	}
	return t, scope
}

// Bind records (v, vScope) := (t, tScope). Binding an already-bound
// variable to a different canonical value is inconsistent.
func (s *Subst) Bind(v *Term, vScope int, t *Term, tScope int) error {
	if v.kind != KindVar {
		panic("subst: binding a non-variable")
	}
	k := bindKey{vScope, v.index}
	if old, ok := s.bindings[k]; ok {
		if old.T == t && old.Scope == tScope {
			return nil
		}
		return fmt.Errorf("%w: X%d[%d]", ErrInconsistentBinding, v.index, vScope)
	}
	s.bindings[k] = Scoped{t, tScope}
	return nil
}

// Merge returns the union of two substitutions. Conflicting bindings for
// the same scoped variable fail.
func (s *Subst) Merge(o *Subst) (*Subst, error) {
	out := s.Clone()
	if o != nil {
		for k, v := range o.bindings {
			if old, ok := out.bindings[k]; ok {
				if old != v {
					return nil, fmt.Errorf("%w: X%d[%d]", ErrInconsistentBinding, k.id, k.scope)
				}
				continue
			}
			out.bindings[k] = v
		}
	}
	return out, nil
}

func (s *Subst) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	keys := make([]bindKey, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].scope != keys[j].scope {
			return keys[i].scope < keys[j].scope
		}
		return keys[i].id < keys[j].id
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := s.bindings[k]
		parts[i] = fmt.Sprintf("X%d[%d] -> %s[%d]", k.id, k.scope, v.T, v.Scope)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Renaming materialises scoped variables as fresh plain variables. It is
// per-inference scratch: Clear it after the conclusion has been built.
type Renaming struct {
	bank *Bank
	m    map[bindKey]*Term
	next int
}

func NewRenaming(bank *Bank, firstFresh int) *Renaming {
	return &Renaming{bank: bank, m: make(map[bindKey]*Term), next: firstFresh}
}

func (r *Renaming) Rename(id, scope int, ty *Type) *Term {
	k := bindKey{scope, id}
	if v, ok := r.m[k]; ok {
		return v
	}
	v := r.bank.Var(r.next, ty)
	r.next++
	r.m[k] = v
	return v
}

func (r *Renaming) Clear() {
	r.m = make(map[bindKey]*Term)
}

// Apply builds the instance of (t, scope) under s. Unbound variables are
// renamed through rn when it is non-nil and kept as themselves otherwise.
// Ground subtrees are returned as-is, without re-allocation.
func (s *Subst) Apply(bank *Bank, rn *Renaming, t *Term, scope int) *Term {
	if t.ground {
		return t
	}
	switch t.kind {
	case KindVar:
		u, usc := s.Deref(t, scope)
		if u.kind == KindVar {
			if rn == nil {
				return u
			}
			return rn.Rename(u.index, usc, u.ty)
		}
		return s.Apply(bank, rn, u, usc)
	case KindBound, KindConst:
		return t
	case KindApp:
		head := s.Apply(bank, rn, t.head, scope)
		args := make([]*Term, len(t.args))
		for i, a := range t.args {
			args[i] = s.Apply(bank, rn, a, scope)
		}
		return bank.MustApp(head, args)
	case KindLambda:
		return bank.Lambda(t.ArgType(), s.Apply(bank, rn, t.body, scope))
	}
	panic("term: unknown kind")
}
