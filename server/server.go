package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"varan/notation"
	"varan/order"
	"varan/proofgraph"
	"varan/saturate"
	"varan/term"
)

type ProofLine struct {
	ID      int
	Clause  string
	Rule    string
	Parents []int
}

type Response struct {
	Status     string
	Steps      int
	Generated  int
	Kept       int
	Proof      []ProofLine
	UsedInputs []int
	Error      string
}

const (
	proveTimeout = 30 * time.Second
	clauseLimit  = 200000
)

func prove(w http.ResponseWriter, r *http.Request) {
	// Allow all origins
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

	src, err := getProblem(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	bank := term.NewBank()
	prec := order.NewPrecedence(bank)
	var ord order.Ordering = order.NewKBO(prec)
	if r.URL.Query().Get("ordering") == "rpo" {
		ord = order.NewRPO(prec)
	}
	p, err := saturate.New(bank, saturate.Options{Ordering: ord, MaxClauses: clauseLimit})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	reader := notation.NewReader(bank, p.DB())
	cs, err := reader.Problem(src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, c := range cs {
		p.AddClause(c)
	}

	ctx, cancel := context.WithTimeout(r.Context(), proveTimeout)
	defer cancel()
	out := p.Saturate(ctx)

	response := Response{
		Status:    out.Status.String(),
		Steps:     out.Steps,
		Generated: p.Stats().Generated,
		Kept:      p.Stats().Kept,
	}
	if out.Err != nil {
		response.Error = out.Err.Error()
	}
	if out.Status == saturate.StatusRefutation {
		for _, s := range proofgraph.Steps(out.Empty) {
			line := ProofLine{
				ID:     s.ID(),
				Clause: notation.FormatClause(bank, s),
				Rule:   s.Proof().Rule,
			}
			for _, parent := range s.Proof().Parents {
				line.Parents = append(line.Parents, parent.ID())
			}
			response.Proof = append(response.Proof, line)
		}
		for _, in := range proofgraph.UsedInputs(out.Empty) {
			response.UsedInputs = append(response.UsedInputs, in.ID())
		}
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		panic(err)
	}
}

func getProblem(r *http.Request) (string, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %v", err)
		return "", err
	}
	defer func() {
		err := r.Body.Close()
		if err != nil {
			log.Printf("Error closing body: %v", err)
		}
	}()
	return string(bodyBytes), nil
}

func main() {
	http.HandleFunc("/prove", prove)
	_ = http.ListenAndServe(":8080", nil)
}
