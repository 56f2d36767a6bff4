package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// UI provides user-friendly output utilities.
type UI struct {
	out      io.Writer
	errOut   io.Writer
	jsonMode bool
}

// NewUI creates a new UI instance.
func NewUI(jsonMode bool, out, errOut io.Writer) *UI {
	return &UI{out: out, errOut: errOut, jsonMode: jsonMode}
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgGreen).Fprintf(ui.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message. In JSON mode it prints {"error": ...}.
func (ui *UI) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if ui.jsonMode {
		json.NewEncoder(ui.out).Encode(map[string]string{"error": msg})
		return
	}
	color.New(color.FgRed).Fprintf(ui.errOut, "✗ %s\n", msg)
}

// Field prints a bold label followed by its value.
func (ui *UI) Field(label, value string) {
	if ui.jsonMode {
		return
	}
	color.New(color.Bold).Fprintf(ui.out, "%s: ", label)
	fmt.Fprintln(ui.out, value)
}

// Section prints a colored section header.
func (ui *UI) Section(title string) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(ui.out, "\n[%s]\n", title)
}

// Text prints plain text.
func (ui *UI) Text(text string) {
	fmt.Fprintln(ui.out, text)
}

// JSON writes v as indented JSON.
func (ui *UI) JSON(v any) error {
	enc := json.NewEncoder(ui.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Spinner wraps a spinner for indeterminate progress. It is silent in JSON
// mode.
type Spinner struct {
	spinner *spinner.Spinner
	running bool
}

// Spinner creates a spinner with the given message on the error stream.
func (ui *UI) Spinner(message string) *Spinner {
	if ui.jsonMode {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(ui.errOut))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	if s.spinner == nil || s.running {
		return
	}
	s.spinner.Start()
	s.running = true
}

// Stop stops the spinner animation. Safe to call more than once.
func (s *Spinner) Stop() {
	if s.spinner == nil || !s.running {
		return
	}
	s.spinner.Stop()
	s.running = false
}

// ProgressBar wraps a progressbar for per-page OCR progress.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// ProgressBar creates a bar counting to total on the error stream.
func (ui *UI) ProgressBar(total int, description string) *ProgressBar {
	if ui.jsonMode {
		return &ProgressBar{}
	}
	errOut := ui.errOut
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(errOut, "\n")
		}),
	)
	return &ProgressBar{bar: bar}
}

// Set moves the bar to current.
func (p *ProgressBar) Set(current int) {
	if p.bar != nil {
		_ = p.bar.Set(current)
	}
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
