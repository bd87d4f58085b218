package term

import (
	"fmt"
	"io"
)

// Notifier prints user-facing toasts to the terminal, standing in for the
// toast overlay of a graphical client.
type Notifier struct {
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) Success(msg string) { fmt.Fprintf(n.out, "✔ %s\n", msg) }
func (n *Notifier) Warn(msg string)    { fmt.Fprintf(n.out, "! %s\n", msg) }
func (n *Notifier) Error(msg string)   { fmt.Fprintf(n.out, "✘ %s\n", msg) }
