package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lily/internal/companion"
)

// Conversation talks to the user over a terminal.
type Conversation struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Conversation {
	return &Conversation{in: bufio.NewReader(in), out: out}
}

func (c *Conversation) Say(text string) {
	fmt.Fprintln(c.out, text)
}

// Ask prints question and reads one line. End of input is reported as
// companion.ErrClosed.
func (c *Conversation) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintln(c.out, question)
	fmt.Fprint(c.out, "> ")
	line, err := c.in.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			fmt.Fprintln(c.out)
			return "", companion.ErrClosed
		}
	} else if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
