package anamnesis

// Version is the library version, overridden at build time with
// -ldflags "-X github.com/aretw0/anamnesis.Version=...".
var Version = "0.1.0-dev"
