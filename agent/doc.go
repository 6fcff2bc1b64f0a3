// Package agent is the runtime that agentkit builds: a model-backed,
// tool-calling agent constructed once from Settings and then configured
// imperatively.
//
// The package focuses on three concerns:
//
//  1. Construction (New) from an immutable Settings record
//  2. Imperative configuration (tools, instructions, limits, hooks)
//  3. Execution: a multi-step loop alternating model calls and tool calls
//     until the model answers without tool calls or MaxSteps is reached
//
// Execution Model:
//   - Generate / Stream snapshot the current configuration, so configuration
//     changes never affect a generation already in flight
//   - Tool calls of one step run concurrently (bounded by MaxParallelTools)
//     and their responses are appended in call order
//   - Hooks run in registration order; the first error aborts the generation
package agent
