/*
Package domain contains the core domain models of the anamnesis engine.

It defines the fundamental entities of a diagnostic session, such as Questions,
Candidates, the Relation Matrix and the per-session State. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Question: A step of the questionnaire, optionally carrying a branch rule.
  - Bank: The ordered, immutable collection of Questions.
  - Candidate: A recommendable catalog item (e.g. a piece of equipment).
  - Matrix: Maps a diagnostic signal to weighted effects on Candidates.
  - State: Captures the runtime snapshot of a session (Sequence, Answers, Scores, Eliminations).
  - Recommendation: A ranked, externally visible candidate with its accumulated score.
*/
package domain
