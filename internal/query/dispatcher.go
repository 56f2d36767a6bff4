// Package query answers summarization and question requests against stored
// contract text.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/store"
)

const (
	summarizeSystemPrompt = "You are a helpful assistant that summarizes legal contracts. Output the answer in markdown format."
	querySystemPrompt     = "You are a helpful assistant that answers questions about legal contracts. Output the answer in markdown format."
)

// Dispatcher looks up stored text, builds a prompt and relays the answer.
type Dispatcher struct {
	store  store.Store
	llm    domain.Completer
	logger *observability.Logger
}

// NewDispatcher creates a dispatcher. llm may be nil when no API key is
// configured; every request then fails with an LLM error after the lookup.
func NewDispatcher(st store.Store, llm domain.Completer, logger *observability.Logger) *Dispatcher {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Dispatcher{
		store:  st,
		llm:    llm,
		logger: logger.WithOperation("query"),
	}
}

// SummarizeMessages builds the prompt for a summary of rec.
func SummarizeMessages(rec domain.Record) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: summarizeSystemPrompt},
		{Role: domain.RoleUser, Content: "Please summarize the following contract into markdown format:\n\n" + rec.RenderContent()},
	}
}

// QueryMessages builds the prompt for answering question about rec.
func QueryMessages(rec domain.Record, question string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: querySystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf("Based on the following contract:\n\n%s\n\nAnswer this question: %s", rec.RenderContent(), question)},
	}
}

// Summarize returns a markdown summary of the document.
func (d *Dispatcher) Summarize(ctx context.Context, documentID string) (string, error) {
	rec, err := d.lookup(ctx, documentID)
	if err != nil {
		return "", err
	}
	return d.complete(ctx, "summarize", documentID, SummarizeMessages(*rec))
}

// Query answers question about the document.
func (d *Dispatcher) Query(ctx context.Context, documentID, question string) (string, error) {
	rec, err := d.lookup(ctx, documentID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(question) == "" {
		return "", domain.BadRequestError("query is required", nil)
	}
	return d.complete(ctx, "query", documentID, QueryMessages(*rec, question))
}

// Document returns the stored record, for read-only inspection.
func (d *Dispatcher) Document(ctx context.Context, documentID string) (*domain.Record, error) {
	return d.lookup(ctx, documentID)
}

func (d *Dispatcher) lookup(ctx context.Context, documentID string) (*domain.Record, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.NotFoundError("Document not found", errors.New("empty document id"))
	}
	return d.store.Get(ctx, documentID)
}

func (d *Dispatcher) complete(ctx context.Context, kind, documentID string, messages []domain.Message) (string, error) {
	if d.llm == nil {
		return "", domain.LLMError("LLM is not configured", errors.New("no API key"))
	}

	logger := d.logger.WithContext(ctx).WithDocument(documentID)
	start := time.Now()

	answer, err := d.llm.Complete(ctx, messages)
	if err != nil {
		logger.Error().Err(err).Str("kind", kind).Msg("LLM call failed")
		if domain.IsType(err, domain.ErrorTypeLLM) {
			return "", err
		}
		return "", domain.LLMError("LLM request failed", err)
	}

	logger.Info().
		Str("kind", kind).
		Int("answer_chars", len(answer)).
		Dur("duration", time.Since(start)).
		Msg("LLM answer relayed")

	return answer, nil
}
