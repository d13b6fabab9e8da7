package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Console writes alert text to a writer, stdout by default. Used for local
// runs where no chat transport is configured.
type Console struct {
	out io.Writer
}

func NewConsole() *Console { return &Console{out: os.Stdout} }

// NewConsoleWriter targets an arbitrary writer, mainly for tests.
func NewConsoleWriter(w io.Writer) *Console { return &Console{out: w} }

func (c *Console) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}
