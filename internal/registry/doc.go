// Package registry builds the unified command list: every command of every
// enabled extension followed by one synthetic command per chain.
//
// The list is cached. Concurrent rebuilds are coalesced, and a cached list
// is dropped after the refresh interval or on Invalidate. Lookups always
// re-check the disabled set, so a stale list never resolves a command of an
// extension that has since been disabled.
package registry
