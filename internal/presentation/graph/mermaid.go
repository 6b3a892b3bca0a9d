package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/anamnesis/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Answered []string
	Current  string
}

// Options tunes what GenerateMermaid draws.
type Options struct {
	// Relations adds candidate nodes linked by weighted edges from each signal.
	Relations bool
	Matrix    domain.Matrix
}

// GenerateMermaid produces a Mermaid flowchart of a questionnaire.
// Mandatory questions form a fixed chain ([Rectangle]) that leads into the
// pool of optional questions ([/Parallelogram/]), which are shuffled per
// session. Branch rules are drawn as labelled edges.
func GenerateMermaid(questions []domain.Question, opts Options, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"início\"))\n")

	var mandatory, optional []domain.Question
	for _, q := range questions {
		if q.Mandatory {
			mandatory = append(mandatory, q)
		} else {
			optional = append(optional, q)
		}
	}

	prev := "start"
	for _, q := range mandatory {
		id := sanitizeMermaidID(q.ID)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label(q)))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		prev = id
	}

	if len(optional) > 0 {
		sb.WriteString("    subgraph pool [\"opcionais (ordem aleatória)\"]\n")
		for _, q := range optional {
			sb.WriteString(fmt.Sprintf("        %s[/\"%s\"/]\n", sanitizeMermaidID(q.ID), label(q)))
		}
		sb.WriteString("    end\n")
		sb.WriteString(fmt.Sprintf("    %s --> pool\n", prev))
		prev = "pool"
	}
	sb.WriteString("    fim((\"fim\"))\n")
	sb.WriteString(fmt.Sprintf("    %s --> fim\n", prev))

	for _, q := range questions {
		from := sanitizeMermaidID(q.ID)
		for _, r := range q.Rules {
			cond := strings.ReplaceAll(describe(r), "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", from, cond, sanitizeMermaidID(r.To)))
		}
		if q.Branch != nil {
			sb.WriteString(fmt.Sprintf("    %s -. \"ƒ\" .-> pool\n", from))
		}
	}

	if opts.Relations && len(opts.Matrix) > 0 {
		writeRelations(&sb, questions, opts.Matrix)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Answered {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func writeRelations(sb *strings.Builder, questions []domain.Question, matrix domain.Matrix) {
	bySignal := make(map[string]string)
	for _, q := range questions {
		bySignal[q.Key()] = q.ID
	}

	signals := make([]string, 0, len(matrix))
	for s := range matrix {
		signals = append(signals, s)
	}
	sort.Strings(signals)

	declared := make(map[string]bool)
	for _, signal := range signals {
		from, ok := bySignal[signal]
		if !ok {
			continue
		}
		for _, e := range matrix[signal] {
			if e.CandidateID == "" {
				continue
			}
			to := "c_" + sanitizeMermaidID(e.CandidateID)
			if !declared[to] {
				declared[to] = true
				sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", to, e.CandidateID))
			}
			sb.WriteString(fmt.Sprintf("    %s -- \"+%g\" --> %s\n", sanitizeMermaidID(from), e.Weight, to))
		}
	}
}

func label(q domain.Question) string {
	if q.Prompt == "" {
		return q.ID
	}
	return strings.ReplaceAll(q.Prompt, "\"", "'")
}

func describe(r domain.BranchRule) string {
	switch {
	case r.Equals != "":
		return fmt.Sprintf("%s = %s", r.When, r.Equals)
	case len(r.In) > 0:
		return fmt.Sprintf("%s ∈ %s", r.When, strings.Join(r.In, ", "))
	case r.Prefix != "":
		return fmt.Sprintf("%s ^ %s", r.When, r.Prefix)
	default:
		return fmt.Sprintf("%s respondida", r.When)
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
