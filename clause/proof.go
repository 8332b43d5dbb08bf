package clause

import (
	"varan/term"
)

// Rule names used by the core inference engine.
const (
	RuleInput              = "input"
	RuleSuperposition      = "superposition"
	RuleEqualityResolution = "equality_resolution"
	RuleEqualityFactoring  = "equality_factoring"
	RuleDemodulation       = "demodulation"
	RuleSimplifyReflect    = "simplify_reflect"
	RuleHook               = "hook"
)

// Proof is one node of the proof DAG: the rule that produced a clause,
// its parent clauses, and the substitution the rule used.
type Proof struct {
	Rule    string
	Parents []*Clause
	Subst   *term.Subst
}

// NewInput marks a clause as part of the initial problem.
func NewInput() *Proof {
	return &Proof{Rule: RuleInput}
}

func NewStep(rule string, subst *term.Subst, parents ...*Clause) *Proof {
	return &Proof{Rule: rule, Parents: parents, Subst: subst}
}

func (p *Proof) IsInput() bool { return p.Rule == RuleInput }
