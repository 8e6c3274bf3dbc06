// Package slot provides durable storage slots: one named key holding one
// opaque blob.
//
// Every backend implements the same two operations. Read returns
// [ErrEmpty] when the slot has never been written. Write overwrites the
// slot unconditionally; there are no partial writes.
//
// Backends:
//
//   - [Memory]: process-local, for tests and throwaway runs
//   - [File]: a single file, replaced atomically on write
//   - [SQLite]: a row in a slots table (pure-Go driver)
//   - [Postgres]: a row in a slots table (pgx)
//   - [Redis]: a string key
//   - [S3]: an object in a bucket
//
// [Open] builds a slot from a [Config].
package slot
