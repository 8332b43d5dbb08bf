package notation

import (
	"fmt"
	"sort"
	"strings"

	"varan/clause"
	"varan/term"
)

// FormatLiteral prints a literal in the input syntax; propositional
// atoms drop the = $true encoding.
func FormatLiteral(bank *term.Bank, l clause.Literal) string {
	if l.IsProp(bank) {
		if l.Positive {
			return l.Left.String()
		}
		return "~" + l.Left.String()
	}
	op := "="
	if !l.Positive {
		op = "!="
	}
	return fmt.Sprintf("%s %s %s", l.Left, op, l.Right)
}

// FormatClause prints a clause in the input syntax, period included.
func FormatClause(bank *term.Bank, c *clause.Clause) string {
	if c.IsEmpty() {
		return "$false."
	}
	parts := make([]string, c.Len())
	for i, l := range c.Lits() {
		parts[i] = FormatLiteral(bank, l)
	}
	return strings.Join(parts, " | ") + "."
}

// FormatProblem prints clauses one per line.
func FormatProblem(bank *term.Bank, cs []*clause.Clause) string {
	var sb strings.Builder
	for _, c := range cs {
		sb.WriteString(FormatClause(bank, c))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatProof lists every step reachable from c, parents before
// children, one line per clause:
//
//  12. f(a) = b.  [superposition 4 7]
func FormatProof(bank *term.Bank, c *clause.Clause) string {
	var steps []*clause.Clause
	seen := make(map[int]bool)
	var visit func(*clause.Clause)
	visit = func(c *clause.Clause) {
		if seen[c.ID()] {
			return
		}
		seen[c.ID()] = true
		for _, p := range c.Proof().Parents {
			visit(p)
		}
		steps = append(steps, c)
	}
	visit(c)
	sort.Slice(steps, func(i, j int) bool { return steps[i].ID() < steps[j].ID() })

	var sb strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&sb, "%d. %s  [%s", s.ID(), FormatClause(bank, s), s.Proof().Rule)
		for _, p := range s.Proof().Parents {
			fmt.Fprintf(&sb, " %d", p.ID())
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
