/*
Package ports defines the driven ports (interfaces) around the questionnaire engine.

These interfaces decouple the session orchestration and the transports (HTTP,
MCP, CLI) from concrete implementations.

# Key Interfaces

  - Engine: the stateless questionnaire core (implemented by *anamnesis.Engine).
  - SessionStore: persists and loads session State.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
