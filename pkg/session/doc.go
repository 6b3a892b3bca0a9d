/*
Package session implements session management and persistence orchestration.

The engine is stateless; the Manager owns the load-submit-save cycle around it,
serializing concurrent requests on the same session with a local mutex and,
when configured, a distributed lock shared by every replica.
*/
package session
