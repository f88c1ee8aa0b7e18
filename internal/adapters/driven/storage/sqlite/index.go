package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsage-labs/docsage-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds configuration for the SQLite index.
type Config struct {
	// DataDir is where the database file lives. Defaults to
	// ~/.docsage/data.
	DataDir string

	// Dimensions is the embedding vector size (required).
	Dimensions int

	// DefaultK is the retrieval width when a search does not set one.
	DefaultK int

	// DefaultThreshold is the similarity floor when a search does not
	// set one.
	DefaultThreshold float64
}

// Index is a SQLite-backed vector index.
type Index struct {
	db               *sql.DB
	path             string
	dimensions       int
	defaultK         int
	defaultThreshold float64
}

// NewIndex opens (creating if needed) a SQLite index in the data
// directory and runs pending migrations.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("sqlite: dimensions must be positive: %w", domain.ErrInvalidInput)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".docsage", "data")
	}
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = domain.DefaultRetrievalK
	}
	if cfg.DefaultThreshold < 0 {
		cfg.DefaultThreshold = domain.DefaultSimilarityThreshold
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "index.db")

	// WAL mode keeps reads open during ingest writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{
		db:               db,
		path:             dbPath,
		dimensions:       cfg.Dimensions,
		defaultK:         cfg.DefaultK,
		defaultThreshold: cfg.DefaultThreshold,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return idx, nil
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Dimensions returns the configured vector size.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// migrate runs all pending migrations.
func (idx *Index) migrate(fsys embed.FS) error {
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Store appends chunks with their vectors in a single transaction.
func (idx *Index) Store(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("sqlite: %d chunks but %d vectors: %w", len(chunks), len(vectors), domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return nil
	}
	for i, vec := range vectors {
		if len(vec) != idx.dimensions {
			return fmt.Errorf("sqlite: vector %d has %d dimensions, index expects %d: %w",
				i, len(vec), idx.dimensions, domain.ErrInvalidInput)
		}
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, page_number, chunk_index, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.Content,
			chunk.PageNumber, chunk.ChunkIndex, float32SliceToBytes(vectors[i]),
			string(metadataJSON), now); err != nil {
			return fmt.Errorf("saving chunk %s: %w: %v", chunk.ID, domain.ErrStorageFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// Search ranks stored chunks by cosine similarity to the query vector.
// Rows are scanned in insertion order so equal similarities keep a
// stable ordering.
func (idx *Index) Search(ctx context.Context, query []float32, opts driven.SearchOptions) ([]domain.RetrievedChunk, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("sqlite: query has %d dimensions, index expects %d: %w",
			len(query), idx.dimensions, domain.ErrInvalidInput)
	}

	k := opts.K
	if k <= 0 {
		k = idx.defaultK
	}
	threshold := opts.Threshold
	if threshold < 0 {
		threshold = idx.defaultThreshold
	}

	sqlQuery := `SELECT content, embedding, metadata FROM chunks`
	var args []any
	if opts.DocumentID != "" {
		sqlQuery += ` WHERE document_id = ?`
		args = append(args, opts.DocumentID)
	}
	sqlQuery += ` ORDER BY rowid`

	rows, err := idx.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var content, metadataJSON string
		var embeddingBlob []byte
		if err := rows.Scan(&content, &embeddingBlob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		similarity := cosineSimilarity(query, bytesToFloat32Slice(embeddingBlob))
		if similarity < threshold {
			continue
		}

		var metadata map[string]any
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}

		results = append(results, domain.RetrievedChunk{
			Content:    content,
			Metadata:   metadata,
			Similarity: similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Stable sort preserves insertion order among equal similarities.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

// DocumentStats returns chunk and distinct page counts for a document.
func (idx *Index) DocumentStats(ctx context.Context, documentID string) (domain.DocumentStats, error) {
	var stats domain.DocumentStats
	row := idx.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT page_number)
		FROM chunks WHERE document_id = ?
	`, documentID)
	if err := row.Scan(&stats.ChunkCount, &stats.PageCount); err != nil {
		return domain.DocumentStats{}, fmt.Errorf("counting document chunks: %w", err)
	}
	return stats, nil
}

// Stats returns index-wide counts.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats
	row := idx.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT document_id) FROM chunks
	`)
	if err := row.Scan(&stats.TotalChunks, &stats.TotalDocuments); err != nil {
		return domain.IndexStats{}, fmt.Errorf("counting chunks: %w", err)
	}
	return stats, nil
}

// DeleteDocument removes all chunks for the document. Returns false
// when the document had no chunks.
func (idx *Index) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	result, err := idx.db.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID)
	if err != nil {
		return false, fmt.Errorf("deleting document chunks: %w: %v", domain.ErrStorageFailure, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return affected > 0, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-magnitude vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
