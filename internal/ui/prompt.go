package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter gathers operator input. The terminal implementation is the
// only one used in production; tests substitute scripted ones.
type Prompter interface {
	// Input reads one line. The empty string means the operator left
	// the field blank.
	Input(label string) (string, error)
	// Secret reads one line without echoing it.
	Secret(label string) (string, error)
	// Confirm asks a yes/no question, defaulting to no.
	Confirm(label string) (bool, error)
}

// TermPrompter reads from an interactive terminal.
type TermPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTermPrompter() *TermPrompter {
	return &TermPrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (p *TermPrompter) Input(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TermPrompter) Secret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (p *TermPrompter) Confirm(label string) (bool, error) {
	answer, err := p.Input(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
