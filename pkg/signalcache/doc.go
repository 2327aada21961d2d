// Package signalcache memoizes the expensive signal-generation step per
// (resource key, time bucket) in the shared store.
//
// Requests that land in the same bucket before the TTL expires get the stored
// payload byte for byte. Concurrent misses for the same key are deliberately
// not collapsed into a single computation: the generator is deterministic
// within a bucket and cheap next to a store round trip, so duplicate computes
// are benign and the last write wins. The bucket width and TTL default to the
// same five minutes so a bucket never outlives its own entry.
package signalcache
