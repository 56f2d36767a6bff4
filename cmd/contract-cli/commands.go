package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "OCR an image or PDF and store its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ui := NewUI(outputJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			up := ingest.Upload{Filename: filepath.Base(path), Body: f}

			spin := ui.Spinner(fmt.Sprintf("Extracting text from %s", up.Filename))
			var bar *ProgressBar
			if ingest.IsPDF(up.Filename) {
				up.Progress = func(done, total int) {
					if bar == nil {
						spin.Stop()
						bar = ui.ProgressBar(total, "OCR pages")
					}
					bar.Set(done)
				}
			}

			spin.Start()
			res, err := a.Ingest.Ingest(ctx, up)
			spin.Stop()
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return err
			}

			if outputJSON {
				return ui.JSON(map[string]any{
					"success":    true,
					"documentId": res.DocumentID,
					"filename":   res.Filename,
				})
			}
			ui.Success("Stored %s", res.Filename)
			ui.Field("Document ID", res.DocumentID)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Print the stored OCR text of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())

			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.Dispatcher.Document(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputJSON {
				return ui.JSON(map[string]any{
					"documentId": args[0],
					"filename":   rec.Filename,
					"content":    rec.Content,
				})
			}

			ui.Field("Filename", rec.Filename)
			for _, key := range rec.SortedKeys() {
				ui.Section(key)
				ui.Text(rec.Content[key])
			}
			return nil
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <document-id>",
		Short: "Summarize a stored contract with the LLM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswer(cmd, "summary", "Summarizing", func(ctx context.Context, d answerer) (string, error) {
				return d.Summarize(ctx, args[0])
			})
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <document-id> <question...>",
		Short: "Ask the LLM a question about a stored contract",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args[1:], " ")
			return runAnswer(cmd, "response", "Thinking", func(ctx context.Context, d answerer) (string, error) {
				return d.Query(ctx, args[0], question)
			})
		},
	}
}

type answerer interface {
	Summarize(ctx context.Context, documentID string) (string, error)
	Query(ctx context.Context, documentID, question string) (string, error)
}

func runAnswer(cmd *cobra.Command, field, activity string, call func(context.Context, answerer) (string, error)) error {
	ui := NewUI(outputJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	spin := ui.Spinner(activity + "...")
	spin.Start()
	answer, err := call(cmd.Context(), a.Dispatcher)
	spin.Stop()
	if err != nil {
		if domain.IsType(err, domain.ErrorTypeNotFound) {
			return fmt.Errorf("%s", domain.UserMessage(err))
		}
		return err
	}

	if outputJSON {
		return ui.JSON(map[string]string{field: answer})
	}
	ui.Text(answer)
	return nil
}
