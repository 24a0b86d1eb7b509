package prompt

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const checkMark = "✅"

// Write prints each line followed by a newline.
func (p *IO) Write(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(p.out, l)
	}
}

func (p *IO) NewLine() { fmt.Fprintln(p.out) }

// Progress starts a status line that Done, Failed or Skipped completes.
func (p *IO) Progress(msg string) { fmt.Fprintf(p.out, "%s ", msg) }

func (p *IO) Done() { fmt.Fprintln(p.out, doneStyle.Render("Done")) }

func (p *IO) Failed() { fmt.Fprintln(p.out, failedStyle.Render("Failed")) }

// Skipped completes a progress line with a highlighted note, e.g. "Already exists".
func (p *IO) Skipped(note string) { fmt.Fprintln(p.out, commentStyle.Render(note)) }

// Success prints msg prefixed with a check mark.
func (p *IO) Success(msg string) { fmt.Fprintf(p.out, "%s %s\n", checkMark, msg) }

// Comment renders s in the comment style, for inline emphasis.
func Comment(s string) string { return commentStyle.Render(s) }
