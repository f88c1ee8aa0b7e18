// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorIndex: Chunk and embedding persistence with similarity search
//   - EmbeddingService: Generates vector embeddings
//   - TextExtractor: Converts raw file bytes into page-marked plain text
//
// # Optional Interfaces
//
//   - LLMService: Generation backends. The generator degrades through its
//     provider chain down to a deterministic extractive responder, so the
//     pipeline works with zero LLM services configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
