package oracle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ichiban/prolog"

	"varan/clause"
	"varan/term"
)

var ErrNotHorn = errors.New("oracle: clause set is not Horn")

// HornChecker decides Horn problems by handing them to an embedded
// Prolog interpreter: definite clauses become the program, each
// all-negative clause becomes a query.
type HornChecker struct {
	bank *term.Bank
}

func NewHornChecker(bank *term.Bank) *HornChecker {
	return &HornChecker{bank: bank}
}

// Refutable reports whether the clause set has a refutation, that is,
// whether some goal clause's body is provable from the definite
// clauses.
func (h *HornChecker) Refutable(cs []*clause.Clause) (bool, error) {
	var program strings.Builder
	var goals []string
	for _, c := range cs {
		head, body, err := h.split(c)
		if err != nil {
			return false, err
		}
		switch {
		case head == "" && len(body) == 0:
			return true, nil
		case head == "":
			goals = append(goals, strings.Join(body, ", ")+".")
		case len(body) == 0:
			fmt.Fprintf(&program, "%s.\n", head)
		default:
			fmt.Fprintf(&program, "%s :- %s.\n", head, strings.Join(body, ", "))
		}
	}
	interp := prolog.New(nil, nil)
	if err := interp.Exec(program.String()); err != nil {
		return false, err
	}
	for _, goal := range goals {
		sols, err := interp.Query(goal)
		if err != nil {
			return false, err
		}
		ok := sols.Next()
		if cerr := sols.Close(); cerr != nil {
			return false, cerr
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (h *HornChecker) split(c *clause.Clause) (head string, body []string, err error) {
	for _, l := range c.Lits() {
		if !l.IsProp(h.bank) {
			return "", nil, fmt.Errorf("%w: equational literal %s", ErrNotHorn, l)
		}
		s, err := h.atom(l.Left)
		if err != nil {
			return "", nil, err
		}
		if l.Positive {
			if head != "" {
				return "", nil, fmt.Errorf("%w: two positive literals in %s", ErrNotHorn, c)
			}
			head = s
		} else {
			body = append(body, s)
		}
	}
	return head, body, nil
}

func (h *HornChecker) atom(t *term.Term) (string, error) {
	var sb strings.Builder
	if err := h.format(t, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (h *HornChecker) format(t *term.Term, sb *strings.Builder) error {
	switch t.Kind() {
	case term.KindVar:
		fmt.Fprintf(sb, "V%d", t.VarID())
		return nil
	case term.KindConst:
		sb.WriteString(h.bank.SymName(t.Sym()))
		return nil
	case term.KindApp:
		if t.Head().Kind() != term.KindConst {
			return fmt.Errorf("%w: higher-order atom %s", ErrNotHorn, t)
		}
		sb.WriteString(h.bank.SymName(t.Head().Sym()))
		sb.WriteByte('(')
		for i, a := range t.Args() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := h.format(a, sb); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
		return nil
	}
	return fmt.Errorf("%w: cannot translate %s", ErrNotHorn, t)
}
