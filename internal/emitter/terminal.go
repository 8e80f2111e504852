package emitter

import (
	"errors"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

var ErrClosed = errors.New("emitter closed")

// Terminal echoes edits to a raw-mode terminal. It remembers the clusters
// of the current line so a backspace erases as many columns as the cluster
// occupies.
type Terminal struct {
	w      io.Writer
	line   []string
	closed bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) SendBackspace(count int) error {
	if t.closed {
		return ErrClosed
	}
	var b strings.Builder
	for ; count > 0 && len(t.line) > 0; count-- {
		last := t.line[len(t.line)-1]
		t.line = t.line[:len(t.line)-1]
		width := uniseg.StringWidth(last)
		if width < 1 {
			width = 1
		}
		b.WriteString(strings.Repeat("\b", width))
		b.WriteString(strings.Repeat(" ", width))
		b.WriteString(strings.Repeat("\b", width))
	}
	if b.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Terminal) SendText(text string) error {
	if t.closed {
		return ErrClosed
	}
	if text == "" {
		return nil
	}
	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		switch cluster {
		case "\n", "\r\n", "\r":
			t.line = t.line[:0]
			b.WriteString("\r\n")
			continue
		}
		t.line = append(t.line, cluster)
		b.WriteString(cluster)
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Line returns the text of the current line.
func (t *Terminal) Line() string { return strings.Join(t.line, "") }

func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	_, err := io.WriteString(t.w, "\r\n")
	return err
}
