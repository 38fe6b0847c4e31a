// Package output renders CLI results for terminals, markdown consumers and
// scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how results are printed.
type Mode string

const (
	// ModeAuto picks ModeText on a terminal and ModeMarkdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Renderer writes styled or structured output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer for out. Colours are only emitted when out
// is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	tty := isTerminal(out)

	profile := termenv.Ascii
	if tty {
		profile = termenv.NewOutput(out).EnvColorProfile()
	}
	lr := lipgloss.NewRenderer(out, termenv.WithProfile(profile))

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  tty,
		styles: NewStyles(lr),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the output stream.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Println writes a line.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Header prints a heading. Level 1 is the most prominent.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Println(FormatHeader(level, text))
	case ModeText:
		if level <= 1 {
			r.Println(r.styles.Header.Render(text))
		} else {
			r.Println(r.styles.Subheader.Render(text))
		}
	}
}

// Muted prints de-emphasised text.
func (r *Renderer) Muted(text string) {
	r.Println(r.styles.Muted.Render(text))
}

// Warn prints a warning to stderr. Warnings are never styled so they stay
// readable in logs.
func (r *Renderer) Warn(text string) {
	_, _ = fmt.Fprintln(r.errOut, "Warning: "+text)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
