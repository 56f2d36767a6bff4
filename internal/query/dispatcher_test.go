package query

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/ingest"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/store"
)

// echoLLM returns the last message's content and records every call.
type echoLLM struct {
	calls [][]domain.Message
	err   error
}

func (e *echoLLM) Complete(_ context.Context, messages []domain.Message) (string, error) {
	e.calls = append(e.calls, messages)
	if e.err != nil {
		return "", e.err
	}
	return messages[len(messages)-1].Content, nil
}

func seededStore(t *testing.T) store.Store {
	t.Helper()
	st := store.NewJSONFileStore(filepath.Join(t.TempDir(), "contracts.json"))
	require.NoError(t, st.Put(context.Background(), "doc-1", domain.Record{
		Filename: "lease.pdf",
		Content:  map[string]string{"page_2": "Rent is 100.", "page_1": "Lease between A and B."},
	}))
	return st
}

func TestSummarize_BuildsPrompt(t *testing.T) {
	llm := &echoLLM{}
	d := NewDispatcher(seededStore(t), llm, nil)

	out, err := d.Summarize(context.Background(), "doc-1")
	require.NoError(t, err)

	require.Len(t, llm.calls, 1)
	msgs := llm.calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, summarizeSystemPrompt, msgs[0].Content)
	assert.Equal(t, domain.RoleUser, msgs[1].Role)
	assert.Equal(t,
		"Please summarize the following contract into markdown format:\n\n[page_1]\nLease between A and B.\n\n[page_2]\nRent is 100.",
		msgs[1].Content)
	assert.Equal(t, msgs[1].Content, out)
}

func TestQuery_BuildsPrompt(t *testing.T) {
	llm := &echoLLM{}
	d := NewDispatcher(seededStore(t), llm, nil)

	out, err := d.Query(context.Background(), "doc-1", "What is the rent?")
	require.NoError(t, err)

	msgs := llm.calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, querySystemPrompt, msgs[0].Content)
	assert.True(t, strings.HasPrefix(msgs[1].Content, "Based on the following contract:\n\n[page_1]\n"))
	assert.True(t, strings.HasSuffix(msgs[1].Content, "\n\nAnswer this question: What is the rent?"))
	assert.Contains(t, out, "Rent is 100.")
}

func TestDispatcher_NotFound(t *testing.T) {
	llm := &echoLLM{}
	d := NewDispatcher(seededStore(t), llm, nil)

	_, err := d.Summarize(context.Background(), "missing")
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))

	_, err = d.Query(context.Background(), "missing", "anything?")
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))

	_, err = d.Summarize(context.Background(), "")
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))

	assert.Empty(t, llm.calls, "LLM must not be called for unknown documents")
}

func TestQuery_EmptyQuestion(t *testing.T) {
	llm := &echoLLM{}
	d := NewDispatcher(seededStore(t), llm, nil)

	_, err := d.Query(context.Background(), "doc-1", "   ")
	assert.True(t, domain.IsType(err, domain.ErrorTypeBadRequest))
	assert.Empty(t, llm.calls)
}

func TestDispatcher_LLMFailure(t *testing.T) {
	st := seededStore(t)
	before, err := st.Get(context.Background(), "doc-1")
	require.NoError(t, err)

	d := NewDispatcher(st, &echoLLM{err: errors.New("quota exceeded")}, nil)

	_, err = d.Summarize(context.Background(), "doc-1")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeLLM))
	assert.Contains(t, domain.UserMessage(err), "quota exceeded")

	after, err := st.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDispatcher_NoLLMConfigured(t *testing.T) {
	d := NewDispatcher(seededStore(t), nil, nil)

	_, err := d.Query(context.Background(), "doc-1", "q")
	assert.True(t, domain.IsType(err, domain.ErrorTypeLLM))

	_, err = d.Summarize(context.Background(), "missing")
	assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))
}

// end-to-end fakes for the ingestion side

type stubExtractor map[string]string

func (s stubExtractor) ExtractText(_ context.Context, path string) (string, error) {
	base := filepath.Base(path)
	if text, ok := s[base]; ok {
		return text, nil
	}
	return s["*"], nil
}

type stubRasterizer struct{ pages int }

func (s stubRasterizer) Convert(_ context.Context, _ string, outDir string) ([]domain.PageImage, error) {
	var out []domain.PageImage
	for i := 1; i <= s.pages; i++ {
		p := filepath.Join(outDir, domain.PageKey(i)+".png")
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			return nil, err
		}
		out = append(out, domain.PageImage{PageNumber: i, ImagePath: p})
	}
	return out, nil
}

func TestEndToEnd_ImageThenQuery(t *testing.T) {
	ctx := context.Background()
	st := store.NewJSONFileStore(filepath.Join(t.TempDir(), "contracts.json"))
	svc := ingest.NewService(nil, ingest.Config{StagingDir: t.TempDir()}, nil,
		stubRasterizer{}, stubExtractor{"*": "THIS AGREEMENT"}, st)

	res, err := svc.Ingest(ctx, ingest.Upload{Filename: "a.png", Body: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, "a.png", res.Filename)

	out, err := NewDispatcher(st, &echoLLM{}, nil).Query(ctx, res.DocumentID, "Who are the parties?")
	require.NoError(t, err)
	assert.Contains(t, out, "THIS AGREEMENT")
	assert.Contains(t, out, "Who are the parties?")
}

func TestEndToEnd_PDFThenSummarize(t *testing.T) {
	ctx := context.Background()
	st := store.NewJSONFileStore(filepath.Join(t.TempDir(), "contracts.json"))
	svc := ingest.NewService(nil, ingest.Config{StagingDir: t.TempDir()}, nil,
		stubRasterizer{pages: 3},
		stubExtractor{"page_1.png": "p1", "page_2.png": "p2", "page_3.png": "p3"}, st)

	res, err := svc.Ingest(ctx, ingest.Upload{Filename: "contract.pdf", Body: strings.NewReader("%PDF")})
	require.NoError(t, err)

	rec, err := st.Get(ctx, res.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, []string{"page_1", "page_2", "page_3"}, rec.SortedKeys())

	out, err := NewDispatcher(st, &echoLLM{}, nil).Summarize(ctx, res.DocumentID)
	require.NoError(t, err)
	i1, i2, i3 := strings.Index(out, "p1"), strings.Index(out, "p2"), strings.Index(out, "p3")
	assert.True(t, i1 >= 0 && i1 < i2 && i2 < i3, "pages out of order: %q", out)
}
