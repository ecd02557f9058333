// Package snippet persists the offline snippet queue and drives record
// lifecycle.
//
// Each captured snippet is one audio artifact plus one JSON sidecar holding
// exactly {id, recorded_at, audio_path, status, identified_as}; unknown
// fields are ignored on read so older builds can open newer queues. The
// Store keeps a keyed in-memory index loaded at open and flushes a sidecar
// atomically on every mutation, so the record and the artifact always travel
// together on disk.
//
// Status only advances recorded → identified → {downloaded|skipped}; a
// record may be deleted from any state. The store is single-process and
// unlocked; concurrent writers racing on one id are out of scope.
package snippet
