// Package records implements the student-records store.
//
// The store owns an ordered collection of [Student] values and mirrors it to a
// single durable storage slot after every mutation (write-through). The
// collection is loaded once from the slot at startup; a missing or corrupt
// slot yields an empty collection rather than an error.
//
// The main components are:
//
//   - [Store]: the collection plus its mutating operations
//   - [Adapter]: serializes the collection to and from a [Slot]
//   - [Entry]: the performance-entry dialog (closed or open for one student)
//   - [Prompter]: the confirmation/notification port used by mutations
//
// Operations address students by their identifier. Positional lookup via
// [Store.At] exists for presentation layers that render rows by index.
package records
