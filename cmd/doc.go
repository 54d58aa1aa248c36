// Package cmd implements the command-line interface for smartsched.
//
// This package provides the following commands:
//   - serve: Start the MCP server that exposes the scheduling tools
//   - auth: Authorize a Google account for calendar access
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
