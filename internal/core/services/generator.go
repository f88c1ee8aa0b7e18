package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
	"github.com/docsage-labs/docsage-cli/internal/core/ports/driven"
	"github.com/docsage-labs/docsage-cli/internal/logger"
)

// Generation behaviour constants.
const (
	// DefaultProviderTimeout bounds one backend attempt.
	DefaultProviderTimeout = 30 * time.Second

	// minAnswerLength is the floor below which a backend answer counts
	// as a failure and the chain advances.
	minAnswerLength = 10

	// maxAnswerLength truncates runaway generations.
	maxAnswerLength = 1000

	// fallbackChunkLimit is how many top chunks feed the extractive
	// responder.
	fallbackChunkLimit = 2

	// fallbackSnippetLength truncates each extractive snippet.
	fallbackSnippetLength = 200
)

// systemPrompt instructs backends to answer only from the supplied
// context.
const systemPrompt = "You are a helpful assistant that answers questions based on provided context. " +
	"Use only the information from the context to answer questions."

// Generator produces answers by walking an ordered chain of generation
// backends, one attempt each, and falling back to a deterministic
// extractive responder when the chain is exhausted. It never fails.
type Generator struct {
	providers []driven.LLMService
	timeout   time.Duration
}

// NewGenerator creates a generator over the given backends in priority
// order. An empty chain is valid; every answer then comes from the
// extractive responder.
func NewGenerator(providers []driven.LLMService, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Generator{
		providers: providers,
		timeout:   timeout,
	}
}

// Backends returns the provider names in chain order.
func (g *Generator) Backends() []string {
	names := make([]string, len(g.providers))
	for i, p := range g.providers {
		names[i] = p.ProviderName()
	}
	return names
}

// Answer generates a response to the query from the retrieved chunks.
// Each backend gets one bounded attempt; a failure or an implausibly
// short answer advances the chain. The final extractive fallback always
// produces something.
func (g *Generator) Answer(
	ctx context.Context,
	query string,
	history []domain.ChatTurn,
	chunks []domain.RetrievedChunk,
	temperature float64,
	maxTokens int,
) string {
	messages := g.buildMessages(query, history, chunks)
	opts := driven.ChatOptions{
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	for _, provider := range g.providers {
		name := provider.ProviderName()
		logger.Debug("Trying generation backend: %s (%s)", name, provider.ModelName())

		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		raw, err := provider.Chat(attemptCtx, messages, opts)
		cancel()

		if err != nil {
			logger.Warn("Backend %s failed: %v", name, err)
			continue
		}

		answer := cleanResponse(raw)
		if len(answer) < minAnswerLength {
			logger.Warn("Backend %s returned an implausibly short answer (%d chars)", name, len(answer))
			continue
		}

		logger.Debug("Backend %s answered (%d chars)", name, len(answer))
		return answer
	}

	logger.Info("All generation backends exhausted, using extractive fallback")
	return extractiveAnswer(query, chunks)
}

// buildMessages assembles the chat transcript: system instructions,
// prior turns, then the context-grounded question.
func (g *Generator) buildMessages(query string, history []domain.ChatTurn, chunks []domain.RetrievedChunk) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})

	for _, turn := range history {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Content})
	}

	prompt := fmt.Sprintf(`Based on the following context, please answer the question accurately and concisely.

Context:
%s

Question: %s

Answer:`, formatContext(chunks), query)

	return append(messages, driven.ChatMessage{Role: "user", Content: prompt})
}

// formatContext renders retrieved chunks as numbered, page-attributed
// source blocks.
func formatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "No relevant context found."
	}

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		page := "unknown"
		if p := chunk.PageNumber(); p > 0 {
			page = fmt.Sprintf("%d", p)
		}
		parts[i] = fmt.Sprintf("[Source %d - Page %s]\n%s", i+1, page, chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// cleanResponse strips common generation artifacts: role prefixes,
// lines repeated within the previous three, and runaway length.
func cleanResponse(response string) string {
	response = strings.ReplaceAll(response, "Assistant:", "")
	response = strings.ReplaceAll(response, "AI:", "")
	response = strings.TrimSpace(response)

	var cleaned []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		recent := cleaned
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		repeat := false
		for _, prev := range recent {
			if prev == line {
				repeat = true
				break
			}
		}
		if !repeat {
			cleaned = append(cleaned, line)
		}
	}
	response = strings.Join(cleaned, "\n")

	if len(response) > maxAnswerLength {
		response = response[:maxAnswerLength] + "..."
	}
	return response
}

// extractiveAnswer builds a deterministic answer straight from the top
// retrieved chunks, with a template chosen by the question type.
func extractiveAnswer(query string, chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "I couldn't find relevant information in the document to answer your question."
	}

	var snippets []string
	for _, chunk := range chunks[:min(len(chunks), fallbackChunkLimit)] {
		content := chunk.Content
		if len(content) > fallbackSnippetLength {
			content = content[:fallbackSnippetLength] + "..."
		}
		snippets = append(snippets, content)
	}
	combined := strings.Join(snippets, " ")

	lower := strings.ToLower(query)
	switch {
	case containsAny(lower, "what", "about", "describe", "summary", "summarize"):
		return "Based on the document, this appears to be about: " + combined
	case containsAny(lower, "when", "time", "date", "schedule"):
		return "According to the document: " + combined
	case containsAny(lower, "where", "location", "place"):
		return "The document mentions: " + combined
	case containsAny(lower, "who", "person", "people"):
		return "From the document: " + combined
	case containsAny(lower, "how", "process", "method"):
		return "The document explains: " + combined
	default:
		return fmt.Sprintf("Based on your question about %q, here's what I found in the document: %s", query, combined)
	}
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
