package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/providers/llm"
)

// Translator formats translation requests for the AI collaborator and
// normalizes its replies. Translation failure never blocks message delivery:
// every failure path returns the source text unchanged.
type Translator struct {
	provider llm.Provider
	log      *logrus.Logger
}

func NewTranslator(provider llm.Provider, log *logrus.Logger) *Translator {
	if log == nil {
		log = logrus.New()
	}
	return &Translator{provider: provider, log: log}
}

// Translate returns text rendered from the source to the target language.
// Empty text or identical language codes short-circuit without touching the
// collaborator. On failure the source text comes back unchanged alongside a
// non-nil error, so callers can tell a fallback from a genuine identity
// translation.
func (t *Translator) Translate(ctx context.Context, text, srcCode, dstCode, srcName, dstName string) (string, error) {
	if text == "" || srcCode == dstCode {
		return text, nil
	}

	prompt := fmt.Sprintf(`Act as a professional medical interpreter. Translate the following healthcare-related message from %s to %s.
The source text is in %s. The result must be in %s.
Ensure medical terminology (symptoms, body parts, dosage) remains highly accurate.
Only return the translated text without any preamble or quotes.

Message: "%s"`, srcName, dstName, srcName, dstName, text)

	out, err := collect(ctx, t.provider, prompt)
	if err != nil {
		t.log.WithError(err).WithFields(logrus.Fields{
			"source_lang": srcCode,
			"target_lang": dstCode,
		}).Warn("translation failed, falling back to source text")
		return text, err
	}

	translated := stripWrapping(out)
	if translated == "" {
		return text, fmt.Errorf("empty translation reply")
	}
	return translated, nil
}

// collect drains a provider stream into a single string.
func collect(ctx context.Context, p llm.Provider, prompt string) (string, error) {
	chunks, errs := p.StreamAnswer(ctx, prompt)

	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
	}

	select {
	case err, ok := <-errs:
		if ok && err != nil {
			return "", err
		}
	default:
	}
	return b.String(), nil
}

// stripWrapping trims whitespace and one pair of surrounding quotes. The
// prompt forbids quoting, but the collaborator does not always comply.
func stripWrapping(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
