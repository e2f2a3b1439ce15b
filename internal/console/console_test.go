package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"lily/internal/companion"
)

func TestAskReadsLines(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("Sam\r\nlast line without newline"), &out)

	got, err := c.Ask(context.Background(), "name?")
	if err != nil || got != "Sam" {
		t.Fatalf("first: %q %v", got, err)
	}
	got, err = c.Ask(context.Background(), "again?")
	if err != nil || got != "last line without newline" {
		t.Fatalf("second: %q %v", got, err)
	}
	if _, err := c.Ask(context.Background(), "more?"); !errors.Is(err, companion.ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
	if !strings.Contains(out.String(), "name?\n> ") {
		t.Fatalf("prompt not printed: %q", out.String())
	}
}

func TestSayPrintsLine(t *testing.T) {
	var out bytes.Buffer
	New(strings.NewReader(""), &out).Say("hello")
	if out.String() != "hello\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestAskHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(strings.NewReader("x\n"), &bytes.Buffer{}).Ask(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
