// Package repository defines the persistence interfaces for hackterm.
//
// Two backends implement them:
//
//   - file: a single save document per path, written with atomic replace
//     so an interrupted or failed save never leaves a partial file behind.
//   - sqlite: a snapshot archive holding many labeled save documents,
//     compressed, in one database file.
//
// Both backends report failures wrapped in domain.ErrFile or
// domain.ErrNotFound so callers can map them to result codes.
package repository
