package languages_test

import (
	"testing"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
)

func TestNameKnownCode(t *testing.T) {
	if got := languages.Name("es"); got != "Spanish" {
		t.Fatalf("unexpected name for es: %s", got)
	}
}

func TestNameUnknownCodeFallsBack(t *testing.T) {
	if got := languages.Name("tlh"); got != "tlh" {
		t.Fatalf("expected fallback to code, got %s", got)
	}
}

func TestSupported(t *testing.T) {
	if !languages.Supported("en") {
		t.Fatal("en should be supported")
	}
	if languages.Supported("xx") {
		t.Fatal("xx should not be supported")
	}
}

func TestAllIsACopy(t *testing.T) {
	a := languages.All()
	a[0].Name = "mutated"
	if languages.Name(a[0].Code) == "mutated" {
		t.Fatal("All must not expose the internal registry")
	}
}

func TestRecognizerLocale(t *testing.T) {
	if got := languages.RecognizerLocale("en"); got != "en-US" {
		t.Fatalf("unexpected locale: %s", got)
	}
	if got := languages.RecognizerLocale(""); got != "en-US" {
		t.Fatalf("empty code should default to en-US, got %s", got)
	}
	if got := languages.RecognizerLocale("sw-KE"); got != "sw-KE" {
		t.Fatalf("pass-through locale mangled: %s", got)
	}
}
