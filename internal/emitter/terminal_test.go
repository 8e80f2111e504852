package emitter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTerminalFollowsEdits(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	for _, key := range []string{"v", "i", "e"} {
		if err := Apply(term, Edit{}, key); err != nil {
			t.Fatalf("apply %q: %v", key, err)
		}
	}
	if err := Apply(term, Edit{Consumed: true, Backspace: 1, Text: "ê"}, "e"); err != nil {
		t.Fatalf("apply edit: %v", err)
	}
	if err := Apply(term, Edit{Consumed: true, Backspace: 1, Text: "ệt"}, "j"); err != nil {
		t.Fatalf("apply edit: %v", err)
	}
	if term.Line() != "việt" {
		t.Fatalf("expected việt, got %q", term.Line())
	}
	if !strings.Contains(buf.String(), "\b \b") {
		t.Fatalf("expected erase sequences in %q", buf.String())
	}

	if err := Apply(term, Edit{}, "\b"); err != nil {
		t.Fatalf("apply backspace: %v", err)
	}
	if term.Line() != "việ" {
		t.Fatalf("expected việ, got %q", term.Line())
	}
}

func TestTerminalNewlineStartsALine(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	_ = term.SendText("xin chào\n")
	if term.Line() != "" {
		t.Fatalf("expected an empty line, got %q", term.Line())
	}
	if err := term.SendBackspace(3); err != nil {
		t.Fatalf("backspace on empty line: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\r\n") {
		t.Fatalf("expected the newline to be written as CRLF, got %q", buf.String())
	}
}

func TestTerminalClose(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	if err := term.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := term.SendText("a"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := term.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
