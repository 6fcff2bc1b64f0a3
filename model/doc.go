// Package model defines the provider-agnostic abstractions used by agents to
// talk to language models.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition, FunctionCall)
//   - Resolve "provider/model" identifiers through a Registry
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (model/openai, model/anthropic) register a Factory with
// DefaultRegistry from their init functions, the same way database/sql
// drivers do. Import them for side effects to make their identifiers resolvable.
package model
