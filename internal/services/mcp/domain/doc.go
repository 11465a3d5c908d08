// Package domain translates MCP tool calls into planner operations.
//
// Each tool is a pair: a constructor returning the tool descriptor and a
// handler constructor bound to the planner or season service. Results are
// flat structs so MCP clients get a stable output schema instead of the
// storage-shaped act records.
package domain
