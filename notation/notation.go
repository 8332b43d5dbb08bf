// Package notation parses and prints problems in a small clausal
// syntax: lowercase function symbols, uppercase variables, literals
// written s = t, s != t, p(X) or ~p(X), clauses as |-separated literal
// lists terminated by a period. Lines starting with % are comments.
package notation

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Node is one parsed term.
type Node interface {
	node()
}

type VarNode struct {
	Name string `@Var`
}

type AppNode struct {
	Fn   string `@Atom`
	Args []Node `"(" @@ ( "," @@ )* ")"`
}

type AtomNode struct {
	Name string `@Atom`
}

func (VarNode) node()  {}
func (AppNode) node()  {}
func (AtomNode) node() {}

// LitNode is one literal. Op is empty for a propositional atom, "=" or
// "!=" for an equation.
type LitNode struct {
	Neg   bool   `@"~"?`
	Left  Node   `@@`
	Op    string `( @("=" | Neq)`
	Right Node   `  @@ )?`
}

type ClauseNode struct {
	Lits []*LitNode `@@ ( "|" @@ )* "."`
}

type ProblemNode struct {
	Clauses []*ClauseNode `@@*`
}

var problemLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Atom", `[a-z][a-zA-Z_0-9]*`},
	{"Var", `[A-Z_][a-zA-Z_0-9]*`},
	{"Neq", `!=`},
	{"Punct", `[(),.|=~]`},
	{"comment", `%[^\n]*`},
	{"whitespace", `[ \t\r\n]+`},
})

var problemParser = participle.MustBuild[ProblemNode](
	participle.Union[Node](AppNode{}, VarNode{}, AtomNode{}),
	participle.Lexer(problemLexer))

type termWrapper struct {
	Term Node `@@`
}

var termParser = participle.MustBuild[termWrapper](
	participle.Union[Node](AppNode{}, VarNode{}, AtomNode{}),
	participle.Lexer(problemLexer))

// ParseProblem parses source text into the raw syntax tree.
func ParseProblem(src string) (*ProblemNode, error) {
	return problemParser.ParseString("", src)
}
