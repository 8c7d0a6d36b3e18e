package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Terminal is a line-oriented Prompter over a reader and a writer.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

// NewTerminal reads answers from in and prints questions to out. With color
// set, notices are highlighted.
func NewTerminal(in io.Reader, out io.Writer, color bool) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, color: color}
}

// Ask prints q and returns the next line without its line ending. Other
// whitespace is kept; a single space is a valid separator answer.
func (t *Terminal) Ask(q Question) (string, error) {
	fmt.Fprintln(t.out, t.paint(q.Text, text.Bold))
	for _, c := range q.Choices {
		fmt.Fprintf(t.out, "%s. %s\n", c.Key, c.Label)
	}
	if q.Hint != "" {
		fmt.Fprintln(t.out, t.paint(q.Hint, text.Faint))
	}
	fmt.Fprint(t.out, "> ")

	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.out, t.paint(msg, text.FgYellow))
}

func (t *Terminal) paint(s string, c text.Color) string {
	if !t.color {
		return s
	}
	return c.Sprint(s)
}
