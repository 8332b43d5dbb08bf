package saturate

import (
	"context"
	"errors"
	"fmt"
	"log"

	"varan/clause"
	"varan/order"
	"varan/term"
)

// UnaryHook generates extra conclusions from the given clause alone.
type UnaryHook func(*Prover, *clause.Clause) []*clause.Clause

// BinaryHook generates extra conclusions from the given clause paired
// with the active set.
type BinaryHook func(*Prover, *clause.Clause, *ActiveSet) []*clause.Clause

// Hooks extends the generating rules without touching the core loop.
type Hooks struct {
	Unary  []UnaryHook
	Binary []BinaryHook
}

// Events carries optional observation callbacks; nil fields are skipped.
type Events struct {
	GivenSelected func(*clause.Clause)
	ClauseAdded   func(*clause.Clause)
	ClauseDeleted func(c *clause.Clause, reason string)
}

// Options configures a prover. Ordering is mandatory; everything else
// has a usable zero value.
type Options struct {
	Ordering  order.Ordering
	Selection clause.SelectionFn

	// AgeRatio is the pick period of the age queue; see NewPassiveSet.
	AgeRatio int

	// MaxSteps bounds the number of given-clause iterations, 0 means
	// unbounded.
	MaxSteps int

	// MaxClauses bounds the total number of interned clauses, 0 means
	// unbounded.
	MaxClauses int

	// Logger receives progress lines; nil means silent.
	Logger *log.Logger
}

var ErrNoOrdering = errors.New("saturate: options carry no term ordering")

// Status classifies the result of a saturation run.
type Status int

const (
	StatusUnknown Status = iota
	StatusRefutation
	StatusSaturated
)

func (s Status) String() string {
	switch s {
	case StatusRefutation:
		return "refutation"
	case StatusSaturated:
		return "saturated"
	}
	return "unknown"
}

// Outcome is the result of Saturate. Empty is the empty clause when a
// refutation was found; its proof reaches back to the inputs.
type Outcome struct {
	Status Status
	Empty  *clause.Clause
	Err    error
	Steps  int
}

// Stats counts what the loop did.
type Stats struct {
	Given           int
	Generated       int
	Kept            int
	ForwardDeleted  int
	BackwardDeleted int
}

// Prover runs the given-clause saturation loop over one problem.
type Prover struct {
	bank *term.Bank
	db   *clause.DB
	ord  order.Ordering
	sel  clause.SelectionFn

	active  *ActiveSet
	passive *PassiveSet
	simpl   *SimplSet

	opts  Options
	stats Stats

	Hooks  Hooks
	Events Events
}

func New(bank *term.Bank, opts Options) (*Prover, error) {
	if bank == nil {
		return nil, errors.New("saturate: nil bank")
	}
	if opts.Ordering == nil {
		return nil, ErrNoOrdering
	}
	if opts.Selection == nil {
		opts.Selection = clause.NoSelection
	}
	return &Prover{
		bank:    bank,
		db:      clause.NewDB(bank),
		ord:     opts.Ordering,
		sel:     opts.Selection,
		active:  NewActiveSet(),
		passive: NewPassiveSet(opts.AgeRatio),
		simpl:   NewSimplSet(),
		opts:    opts,
	}, nil
}

func (p *Prover) Bank() *term.Bank { return p.bank }

func (p *Prover) DB() *clause.DB { return p.db }

func (p *Prover) Ordering() order.Ordering { return p.ord }

func (p *Prover) Active() *ActiveSet { return p.active }

func (p *Prover) Passive() *PassiveSet { return p.passive }

func (p *Prover) Stats() Stats { return p.stats }

// AddInitial interns the literal list as an input clause and queues it.
func (p *Prover) AddInitial(lits []clause.Literal) *clause.Clause {
	c := p.db.Make(lits, clause.NewInput())
	p.enqueue(c)
	return c
}

// AddClause queues a clause built elsewhere against this prover's DB.
func (p *Prover) AddClause(c *clause.Clause) {
	p.enqueue(c)
}

func (p *Prover) enqueue(c *clause.Clause) bool {
	if c.IsTautology() || p.active.Contains(c) || p.passive.Contains(c) {
		return false
	}
	p.passive.Push(c)
	if p.Events.ClauseAdded != nil {
		p.Events.ClauseAdded(c)
	}
	return true
}

// Saturate runs the given-clause loop until the empty clause appears,
// the passive queue drains, a resource limit triggers, or the context is
// cancelled. Cancellation is observed between iterations only.
func (p *Prover) Saturate(ctx context.Context) Outcome {
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{Status: StatusUnknown, Err: err, Steps: steps}
		}
		if p.opts.MaxSteps > 0 && steps >= p.opts.MaxSteps {
			return Outcome{
				Status: StatusUnknown,
				Err:    fmt.Errorf("saturate: step limit %d reached", p.opts.MaxSteps),
				Steps:  steps,
			}
		}
		if p.opts.MaxClauses > 0 && p.db.NumClauses() >= p.opts.MaxClauses {
			return Outcome{
				Status: StatusUnknown,
				Err:    fmt.Errorf("saturate: clause limit %d reached", p.opts.MaxClauses),
				Steps:  steps,
			}
		}

		g := p.passive.Pop()
		if g == nil {
			p.logf("saturated after %d given clauses", steps)
			return Outcome{Status: StatusSaturated, Steps: steps}
		}
		steps++
		p.stats.Given++

		g, kept := p.forwardSimplify(g)
		if !kept || p.active.Contains(g) {
			p.stats.ForwardDeleted++
			continue
		}
		if g.IsEmpty() {
			p.logf("refutation after %d given clauses", steps)
			return Outcome{Status: StatusRefutation, Empty: g, Steps: steps}
		}
		if g.Selected() == nil {
			if err := g.Select(p.sel); err != nil {
				return Outcome{Status: StatusUnknown, Err: err, Steps: steps}
			}
		}
		if p.Events.GivenSelected != nil {
			p.Events.GivenSelected(g)
		}

		p.active.Add(p.ord, g)
		p.simpl.Add(p.ord, g)
		p.backwardSimplify(g)
		if !p.active.Contains(g) {
			// The backward passes skip g itself; this check only keeps
			// the loop from generating with a clause that is not active.
			continue
		}

		for _, c := range p.generate(g) {
			p.stats.Generated++
			if c.IsEmpty() {
				p.logf("refutation after %d given clauses", steps)
				return Outcome{Status: StatusRefutation, Empty: c, Steps: steps}
			}
			if p.enqueue(c) {
				p.stats.Kept++
			}
		}
	}
}

func (p *Prover) logf(format string, args ...any) {
	if p.opts.Logger != nil {
		p.opts.Logger.Printf(format, args...)
	}
}

func (p *Prover) discardActive(c *clause.Clause) {
	p.active.Remove(p.ord, c)
	p.simpl.Remove(p.ord, c)
	p.stats.BackwardDeleted++
	if p.Events.ClauseDeleted != nil {
		p.Events.ClauseDeleted(c, "backward_subsumed")
	}
}

func (p *Prover) discardPassive(c *clause.Clause) {
	p.passive.Remove(c)
	p.stats.BackwardDeleted++
	if p.Events.ClauseDeleted != nil {
		p.Events.ClauseDeleted(c, "backward_subsumed")
	}
}
