// Package metadata reconciles track metadata from the fingerprint service,
// the registry, and best-effort video-title parsing into one canonical
// Track.
//
// Merge policy: a registry value only fills an empty field, the registry's
// canonical artist name replaces the seed artist, and the registry release
// id always wins because it is strictly higher-fidelity. A track whose album
// and year are both populated is never merged into again.
package metadata
