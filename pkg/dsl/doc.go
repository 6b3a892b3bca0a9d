/*
Package dsl provides a fluent builder for assembling catalogs in Go code.

It is the programmatic counterpart of the YAML catalog format and is mostly
used for tests and embedded questionnaires. Branch resolves the context key
when it is called, so SaveTo must come first when both are used.

Example usage:

	b := dsl.New("clinica")
	b.Question("perfil_tipo").Prompt("Perfil?").Mandatory()
	b.Question("flacidez_facial").
		Prompt("Há queixa de flacidez facial?").
		Options("Sim", "Não").
		Branch("Não", "manchas").
		Affects("hipro", 10)
	b.Question("manchas").Prompt("Há manchas?")
	b.Candidate("hipro", "Hipro HIFU")

	catalog, err := b.Build()
*/
package dsl
