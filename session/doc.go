// Package session keeps multi-turn conversations for agents.
//
// A Store holds the message history per session id. Send runs an agent on the
// stored history plus a new prompt and appends everything the generation
// produced, so the next turn sees the full conversation.
//
// Add additional backends (Redis, Postgres, ...) by implementing Store; only
// the wiring layer decides which implementation to instantiate.
package session
