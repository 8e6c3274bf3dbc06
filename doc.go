// Package olevel is a small records manager for O-Level secondary school
// students, served as an embeddable web dashboard.
//
// It keeps one collection of students (name, ID, age, gender and form) with
// a history of per-form score sheets across nine subjects. The collection is
// persisted as a single JSON document in a storage slot after every change.
//
// # Quick Start
//
//	app, _ := olevel.New(olevel.WithPort(8080))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	app.Start(ctx) // blocks until context is cancelled
//
// # Storage
//
// The slot is a file by default. [WithSlotConfig] selects another built-in
// driver (memory, sqlite, postgres, redis or s3) and [WithSlot] injects a
// custom [Slot]. Unreadable or corrupt slot contents load as an empty
// collection.
//
// # Dashboard
//
// The dashboard at http://localhost:<port> offers the registration form, the
// student table with per-row actions (details, add scores, promote, delete),
// the score-entry dialog and a clear-all action. Destructive actions ask for
// confirmation. Every open dashboard re-renders over Server-Sent Events when
// the collection changes.
//
// # Architecture
//
// The app consists of several internal packages:
//
//   - internal/records: the student model, validation and the store
//   - internal/slot: storage drivers
//   - internal/view: the student table rendering
//   - internal/feed: change fan-out to live dashboards
//   - internal/metrics: Prometheus collectors
//   - internal/server: HTTP API, dashboard and SSE
//
// The dashboard package embeds the web UI.
package olevel
