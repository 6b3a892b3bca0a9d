/*
Package anamnesis is a deterministic, rule-based questionnaire engine that
recommends catalog items (e.g. aesthetic equipment) from a respondent's answers.

# Concept

A catalog carries three static inputs: the Question Bank, the Candidate
Catalog and the Relation Matrix linking answer signals to candidates with
weights. A session asks the mandatory questions first, then the remaining ones
in a seeded random order. Answers can redirect the sequence forward through
branch rules, add weight to linked candidates, or eliminate them when the
answer is negative: it equals or starts with a negative token ("Não",
"nao", "no"), case-insensitively.

The engine never persists anything. Each session is an explicit *domain.State
value; callers save it wherever they like (see pkg/session and pkg/adapters).

# Usage

	eng, err := anamnesis.New(catalog.Default(), anamnesis.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	s := eng.NewSession(context.Background(), "paciente-1")
	for !s.IsComplete() {
		q := s.CurrentQuestion()
		s.SubmitAnswer(q.Key(), ask(q))
	}

	for _, r := range s.Ranking() {
		fmt.Printf("%s: %.0f\n", r.Name, r.Score)
	}
*/
package anamnesis
