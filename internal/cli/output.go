package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const ruleWidth = 60

// printer writes command output in one of three modes: raw JSON,
// quiet (the single most useful value) or formatted text.
type printer struct {
	out      io.Writer
	errOut   io.Writer
	json     bool
	quiet    bool
	markdown bool // render assistant text through glamour
	width    int
}

func (p *printer) printJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (p *printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// field prints an aligned "Label: value" line.
func (p *printer) field(indent, label, value string) {
	fmt.Fprintf(p.out, "%s%s %s\n", indent, styleLabel.Render(fmt.Sprintf("%-11s", label+":")), styleValue.Render(value))
}

func (p *printer) success(msg string) {
	fmt.Fprintln(p.out, styleSuccess.Render("✓ "+msg))
}

func (p *printer) hint(msg string) {
	fmt.Fprintln(p.out, styleHint.Render(msg))
}

// warn goes to stderr so --json output stays parseable.
func (p *printer) warn(format string, a ...any) {
	fmt.Fprintln(p.errOut, styleWarning.Render("Warning: ")+fmt.Sprintf(format, a...))
}

func (p *printer) rule(ch string) {
	fmt.Fprintln(p.out, styleHint.Render(strings.Repeat(ch, ruleWidth)))
}

// renderMarkdown renders text through glamour when enabled, falling
// back to the plain text on any error.
func (p *printer) renderMarkdown(text string) string {
	if !p.markdown || strings.TrimSpace(text) == "" {
		return text
	}
	width := p.width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

// truncate shortens s to maxLen display cells, appending "...".
func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, maxLen, "...")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// isTerminal reports whether v is a file attached to an interactive terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// applyColorMode forces or disables color per the output.color setting.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
