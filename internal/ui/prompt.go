package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrAborted is returned when the user declines to continue. It ends the
// run without being treated as a failure.
var ErrAborted = errors.New("aborted by user")

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(question string) (bool, error)

// Confirm calls f(question).
func (f ConfirmFunc) Confirm(question string) (bool, error) {
	return f(question)
}

// AlwaysYes confirms every question without asking.
var AlwaysYes Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

// AlwaysNo declines every question without asking.
var AlwaysNo Confirmer = ConfirmFunc(func(string) (bool, error) { return false, nil })

// Prompter reads answers from a line-oriented input and writes prompts to out.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	// fd is the terminal file descriptor used for hidden input, or -1.
	fd int
}

// NewPrompter creates a prompter over arbitrary input and output.
// Passwords are read as plain lines because in is not a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
		fd:     -1,
	}
}

// Stdio creates a prompter bound to the process stdin and stdout.
func Stdio() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		p.fd = fd
	}
	return p
}

// Println writes a line to the prompter output.
func (p *Prompter) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

// ReadLine prints label followed by an input marker and returns the trimmed answer.
func (p *Prompter) ReadLine(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s\n> ", label)
	return p.readLine()
}

// ReadPassword prints label and reads a secret without echoing it when attached to a terminal.
func (p *Prompter) ReadPassword(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s\n> ", label)
	if p.fd < 0 {
		return p.readLine()
	}
	secret, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// Confirm prints question and returns true only for a "y" or "yes" answer.
func (p *Prompter) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprintln(p.out, question)
	answer, err := p.ReadLine("(y/n)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
