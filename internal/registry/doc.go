// Package registry looks up canonical track metadata in MusicBrainz.
//
// Lookup returns at most one best-match release for an (artist, title) pair,
// or nil when the registry has nothing. Transport and service failures are
// tagged services.ErrExternalService; the reconciler downgrades them to
// "no result" so a registry outage never fails an acquisition.
//
// A small embedded SQLite cache keyed by the lowercased (artist, title)
// query avoids re-querying MusicBrainz on repeated processing passes.
package registry
