/*
Package catalog loads the static inputs of the engine: the Question Bank, the
Candidate Catalog and the Relation Matrix.

Catalogs are authored externally as YAML documents:

	name: clinica
	negative_tokens: [não, nao, no]
	questions:
	  - id: perfil_tipo
	    prompt: Você é profissional, clínica ou paciente?
	    options: [Profissional, Clínica, Paciente]
	    mandatory: true
	  - id: flacidez_facial
	    prompt: Há queixa de flacidez facial?
	    options: [Sim, Não]
	    branches:
	      - when: flacidez_facial
	        equals: Não
	        to: manchas
	candidates:
	  - id: hipro
	    name: Hipro HIFU
	relations:
	  flacidez_facial:
	    - candidate: hipro
	      weight: 10

Candidates default to enabled and active when the flags are omitted, and a
missing weight counts as zero.
*/
package catalog
