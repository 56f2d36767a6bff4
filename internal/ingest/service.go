// Package ingest turns uploaded contract files into stored OCR records.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/store"
)

// Upload is one file received from a client.
type Upload struct {
	Filename string // verbatim client name, metadata only
	Body     io.Reader
	// Progress, when set, is called once per OCR'd PDF page. Calls are
	// serialized.
	Progress func(done, total int)
}

// PDFValidator rejects staged files that are not parsable PDFs.
type PDFValidator interface {
	ValidatePDF(path string) error
}

// Config holds ingestion settings.
type Config struct {
	StagingDir     string // root for per-upload temp dirs; empty means os.TempDir()
	OCRConcurrency int    // pages OCR'd in parallel, at least 1
}

// Service orchestrates staging, rasterization, OCR and persistence.
type Service struct {
	logger     *observability.Logger
	config     Config
	validator  PDFValidator
	rasterizer domain.Rasterizer
	extractor  domain.TextExtractor
	store      store.Store
	newID      func() string
}

// NewService creates an ingestion service. validator may be nil.
func NewService(
	logger *observability.Logger,
	cfg Config,
	validator PDFValidator,
	rasterizer domain.Rasterizer,
	extractor domain.TextExtractor,
	st store.Store,
) *Service {
	if logger == nil {
		logger = observability.Nop()
	}
	if cfg.OCRConcurrency < 1 {
		cfg.OCRConcurrency = 1
	}
	return &Service{
		logger:     logger.WithOperation("ingest"),
		config:     cfg,
		validator:  validator,
		rasterizer: rasterizer,
		extractor:  extractor,
		store:      st,
		newID:      uuid.NewString,
	}
}

// IsPDF reports whether filename names a PDF (case-insensitive .pdf suffix).
func IsPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Ingest stages the upload, extracts its text and stores the record under a
// fresh document id. Nothing is stored unless every step succeeds.
func (s *Service) Ingest(ctx context.Context, up Upload) (*domain.IngestResult, error) {
	if up.Body == nil {
		return nil, domain.BadRequestError("No file part", nil)
	}
	if strings.TrimSpace(up.Filename) == "" {
		return nil, domain.BadRequestError("No selected file", nil)
	}

	documentID := s.newID()
	logger := s.logger.WithContext(ctx).WithDocument(documentID)
	start := time.Now()

	logger.Info().Str("filename", up.Filename).Msg("Starting ingestion")

	stagingDir, err := os.MkdirTemp(s.config.StagingDir, "upload-"+documentID+"-*")
	if err != nil {
		return nil, domain.IOError("failed to create staging directory", err)
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			logger.Warn().Err(err).Str("dir", stagingDir).Msg("failed to remove staging directory")
		}
	}()

	stagedPath := filepath.Join(stagingDir, documentID+filepath.Ext(filepath.Base(up.Filename)))
	size, err := stage(stagedPath, up.Body)
	if err != nil {
		return nil, err
	}

	var content map[string]string
	if IsPDF(up.Filename) {
		content, err = s.extractPDF(ctx, logger, stagedPath, stagingDir, up.Progress)
	} else {
		content, err = s.extractImage(ctx, stagedPath, up.Filename)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Ingestion failed")
		return nil, err
	}

	record := domain.Record{Filename: up.Filename, Content: content}
	if err := s.store.Put(ctx, documentID, record); err != nil {
		logger.Error().Err(err).Msg("Failed to store record")
		return nil, err
	}

	logger.Info().
		Int64("bytes", size).
		Int("entries", len(content)).
		Dur("duration", time.Since(start)).
		Msg("Ingestion complete")

	return &domain.IngestResult{DocumentID: documentID, Filename: up.Filename}, nil
}

func stage(path string, body io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, domain.IOError("failed to stage upload", err)
	}
	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, domain.IOError("failed to stage upload", err)
	}
	return n, nil
}

func (s *Service) extractImage(ctx context.Context, path, filename string) (map[string]string, error) {
	text, err := s.extractor.ExtractText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", filename, err)
	}
	return map[string]string{filename: text}, nil
}

func (s *Service) extractPDF(ctx context.Context, logger *observability.Logger, pdfPath, outDir string, progress func(done, total int)) (map[string]string, error) {
	if s.validator != nil {
		if err := s.validator.ValidatePDF(pdfPath); err != nil {
			return nil, err
		}
	}

	pages, err := s.rasterizer.Convert(ctx, pdfPath, outDir)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.DocumentFormatError("PDF has no pages", nil)
	}

	logger.Debug().Int("pages", len(pages)).Msg("PDF rasterized")

	var (
		mu   sync.Mutex
		done int
	)
	texts := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.OCRConcurrency)

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			text, err := s.extractor.ExtractText(gctx, page.ImagePath)
			if err != nil {
				return fmt.Errorf("ocr page %d: %w", page.PageNumber, err)
			}
			texts[i] = text
			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(pages))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	content := make(map[string]string, len(pages))
	for i, page := range pages {
		content[domain.PageKey(page.PageNumber)] = texts[i]
	}
	return content, nil
}
