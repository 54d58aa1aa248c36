// Package server provides the MCP server context, health endpoints,
// and the dedicated Prometheus metrics server for smartsched.
//
// # Key Components
//
// ServerContext manages Google Calendar clients with lazy initialization
// and caching. It supports multiple accounts (tokens stored per account by
// the google package) and carries server-wide scheduling settings: the
// target calendar ID, the timezone used to resolve natural-language date
// phrases, and the read-only flag that disables mutating tools.
//
// GatewayForAccount wraps an account's calendar client in a
// schedule.Gateway so tools get confirmation-gated mutations without
// constructing the scheduling stack themselves.
//
// HealthChecker serves /healthz and /readyz for Kubernetes probes.
// MetricsServer serves /metrics on a dedicated port so operational
// metrics are never exposed on the MCP transport itself.
package server
