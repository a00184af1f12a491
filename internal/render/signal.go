package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OperatorSignal suspends until an external party says to continue. Wait
// has no timeout of its own; only ctx ends it early.
type OperatorSignal interface {
	Wait(ctx context.Context) error
}

// PromptSignal asks the operator to press Enter
type PromptSignal struct {
	in     io.Reader
	out    io.Writer
	prompt string
}

// NewPromptSignal creates a signal that prints prompt to out and waits for a
// line on in
func NewPromptSignal(in io.Reader, out io.Writer, prompt string) *PromptSignal {
	return &PromptSignal{in: in, out: out, prompt: prompt}
}

// Wait blocks until a line is read. End of input counts as the signal, so
// piped or closed stdin does not hang the run.
func (p *PromptSignal) Wait(ctx context.Context) error {
	if p.prompt != "" {
		_, _ = fmt.Fprint(p.out, p.prompt)
	}

	// A blocked read cannot be interrupted. On cancellation the goroutine
	// stays parked on in until input arrives or the process exits; done is
	// buffered so its late send never blocks.
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(p.in).ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return eris.Wrap(ErrOperatorCancelled, ctx.Err().Error())
	case err := <-done:
		if err != nil && !errors.Is(err, io.EOF) {
			return eris.Wrap(err, "read operator input")
		}
		if errors.Is(err, io.EOF) {
			zap.L().Debug("operator input closed, continuing")
		}
		return nil
	}
}

type resolvedSignal struct{}

// Resolved returns a signal that is already given
func Resolved() OperatorSignal {
	return resolvedSignal{}
}

func (resolvedSignal) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(ErrOperatorCancelled, err.Error())
	}
	return nil
}
