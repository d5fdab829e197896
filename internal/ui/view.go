// Package ui renders the interactive screens. Styling is centralized
// here so the menu code deals in headers and rows, not escape codes.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// View writes rendered screens to a single output stream.
type View struct {
	out io.Writer
}

func NewView() *View { return &View{out: os.Stdout} }

// NewViewWriter is used by tests to capture output.
func NewViewWriter(out io.Writer) *View { return &View{out: out} }

func (v *View) Title(text string) {
	fmt.Fprintln(v.out, titleStyle.Render(text))
}

func (v *View) Success(format string, args ...any) {
	fmt.Fprintln(v.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (v *View) Error(format string, args ...any) {
	fmt.Fprintln(v.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func (v *View) Warn(format string, args ...any) {
	fmt.Fprintln(v.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func (v *View) Info(format string, args ...any) {
	fmt.Fprintln(v.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (v *View) Println(args ...any) {
	fmt.Fprintln(v.out, args...)
}

// Panel frames a block of text, used for staged-change recaps.
func (v *View) Panel(text string) {
	fmt.Fprintln(v.out, panelStyle.Render(text))
}

// Table renders headers and rows as a bordered table.
func (v *View) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(v.out, t.Render())
}

// Menu renders a numbered choice list.
func (v *View) Menu(title string, items []string) {
	v.Title(title)
	for i, item := range items {
		fmt.Fprintf(v.out, "  %2d. %s\n", i+1, item)
	}
}
