package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"varan/notation"
	"varan/order"
	"varan/saturate"
	"varan/term"
)

// A small group theory problem: from left identity, left inverse and
// associativity, refute the negated right identity.
const demoProblem = `
mul(e, X) = X.
mul(inv(X), X) = e.
mul(mul(X, Y), Z) = mul(X, mul(Y, Z)).
mul(a, e) != a.
`

func main() {
	src := demoProblem
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Println("Error reading problem file:", err)
			return
		}
		src = string(data)
	}

	bank := term.NewBank()
	prec := order.NewPrecedence(bank)
	p, err := saturate.New(bank, saturate.Options{Ordering: order.NewKBO(prec)})
	if err != nil {
		fmt.Println("Error building prover:", err)
		return
	}
	reader := notation.NewReader(bank, p.DB())
	cs, err := reader.Problem(src)
	if err != nil {
		fmt.Println("Error parsing problem:", err)
		return
	}
	for _, c := range cs {
		p.AddClause(c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out := p.Saturate(ctx)

	fmt.Printf("%s after %d steps\n", out.Status, out.Steps)
	if out.Err != nil {
		fmt.Println(out.Err)
	}
	stats := p.Stats()
	fmt.Printf("given %d, generated %d, kept %d\n", stats.Given, stats.Generated, stats.Kept)
	if out.Status == saturate.StatusRefutation {
		fmt.Print(notation.FormatProof(bank, out.Empty))
	}
}
