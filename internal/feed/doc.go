// Package feed fans out student-collection changes to subscribers.
//
// The records store reports each persisted mutation to a [Feed], which
// forwards it to every subscriber (the dashboard's Server-Sent Events
// streams). The feed also remembers the most recent change so a new
// subscriber can be told the current collection size immediately.
//
// Sends are non-blocking: a subscriber whose buffer is full misses the
// change rather than stalling the store.
package feed
