// Package sqlite provides a VectorIndex backed by an embedded SQLite
// database. Chunk text, metadata and embedding vectors live in one
// file; similarity ranking happens in process over the stored vectors.
package sqlite
