package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeProvider replays a scripted reply (or error) and counts calls.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) StreamAnswer(_ context.Context, _ string) (<-chan string, <-chan error) {
	f.calls++
	// split into a few chunks to exercise the collect loop
	parts := strings.SplitAfter(f.reply, " ")
	out := make(chan string, len(parts))
	errs := make(chan error, 1)
	if f.err != nil {
		errs <- f.err
	} else {
		for _, part := range parts {
			if part != "" {
				out <- part
			}
		}
	}
	close(errs)
	close(out)
	return out, errs
}

func (f *fakeProvider) Close() error { return nil }

func TestTranslateSameLanguageShortCircuits(t *testing.T) {
	p := &fakeProvider{reply: "should never be used"}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "hello", "en", "en", "English", "English")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if p.calls != 0 {
		t.Fatalf("collaborator must not be called, got %d calls", p.calls)
	}
}

func TestTranslateEmptyTextShortCircuits(t *testing.T) {
	p := &fakeProvider{reply: "junk"}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "", "en", "es", "English", "Spanish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty passthrough, got %q", got)
	}
	if p.calls != 0 {
		t.Fatal("collaborator must not be called for empty text")
	}
}

func TestTranslateSuccess(t *testing.T) {
	p := &fakeProvider{reply: "¿Dónde te duele?"}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "Where does it hurt?", "en", "es", "English", "Spanish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "¿Dónde te duele?" {
		t.Fatalf("unexpected translation: %q", got)
	}
	if p.calls != 1 {
		t.Fatalf("expected exactly one collaborator call, got %d", p.calls)
	}
}

func TestTranslateFailureFallsBackToSource(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "Where does it hurt?", "en", "es", "English", "Spanish")
	if err == nil {
		t.Fatal("expected an error from a failed collaborator call")
	}
	if got != "Where does it hurt?" {
		t.Fatalf("expected source text fallback, got %q", got)
	}
}

// A reply identical to the input is a legitimate translation, not a failure.
func TestTranslateIdentityReplyIsNotAnError(t *testing.T) {
	p := &fakeProvider{reply: "OK"}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "OK", "en", "es", "English", "Spanish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "OK" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestTranslateStripsWrappingQuotes(t *testing.T) {
	p := &fakeProvider{reply: "  \"¿Dónde te duele?\"  "}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "Where does it hurt?", "en", "es", "English", "Spanish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "¿Dónde te duele?" {
		t.Fatalf("quotes not stripped: %q", got)
	}
}

func TestTranslateBlankReplyFallsBack(t *testing.T) {
	p := &fakeProvider{reply: "   "}
	tr := NewTranslator(p, nil)

	got, err := tr.Translate(context.Background(), "Where does it hurt?", "en", "es", "English", "Spanish")
	if err == nil {
		t.Fatal("expected an error for a blank reply")
	}
	if got != "Where does it hurt?" {
		t.Fatalf("expected fallback on blank reply, got %q", got)
	}
}
