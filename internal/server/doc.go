// Package server provides the HTTP surface for the student-records dashboard.
//
// It handles:
//
//   - Dashboard serving: the embedded HTML page at "/"
//   - JSON API under "/api/students" for every store operation
//   - Score-entry dialogs under "/api/entries", one session per open dialog
//   - Server-Sent Events at "/api/sse" so open dashboards re-render on change
//   - Prometheus metrics at "/metrics" and a liveness probe at "/healthz"
//
// Operations that need the user's confirmation (promote, delete, clear)
// answer 409 with the question when the request is not marked confirmed;
// the browser asks the user and repeats the request.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
