// Package scheduler_tools provides MCP (Model Context Protocol) tools for
// natural-language calendar scheduling.
//
// This package exposes the scheduling core through a standardized MCP
// interface, allowing AI assistants to find free slots, resolve
// natural-language date and time phrases, locate events by fuzzy name, and
// perform confirmation-gated event mutations on behalf of users.
//
// Read-only tools are always registered. Mutating tools (create, update,
// delete) are registered only when write mode is enabled, and every
// mutation is gated on an explicit confirmed flag: unconfirmed requests
// return a proposal instead of touching the calendar.
package scheduler_tools
