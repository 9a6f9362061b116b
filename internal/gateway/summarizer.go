package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/providers/llm"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

// Summarizer renders a structured clinical summary from a full transcript.
// The caller always receives a well-formed summary: any collaborator failure
// resolves to the sentinel object instead of an error.
type Summarizer struct {
	provider llm.Provider
	log      *logrus.Logger
}

func NewSummarizer(provider llm.Provider, log *logrus.Logger) *Summarizer {
	if log == nil {
		log = logrus.New()
	}
	return &Summarizer{provider: provider, log: log}
}

// Summarize fails fast on an empty transcript before any collaborator call.
func (s *Summarizer) Summarize(ctx context.Context, messages []models.Message) (models.ConversationSummary, error) {
	const op = "Summarizer.Summarize"

	if len(messages) == 0 {
		return models.ConversationSummary{}, utils.E(utils.CodeInvalidArgument, op, "no messages to summarize", nil)
	}

	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s]: %s\n", strings.ToUpper(string(m.SenderRole)), m.OriginalText)
	}

	prompt := `You are a professional medical scribe. Summarize the following doctor-patient consultation into a JSON object with exactly these fields:
{"symptoms": [string], "diagnoses": [string], "medications": [string], "followUp": [string], "overallSummary": string}
Ensure all clinical data (symptoms, diagnoses, medications and dosages) is accurately captured. Return only the JSON object.

Consultation History:
` + b.String()

	raw, err := collect(ctx, s.provider, prompt)
	if err != nil {
		s.log.WithError(err).Error("summarization failed")
		return models.SentinelSummary(), nil
	}

	summary, perr := parseSummary(raw)
	if perr != nil {
		s.log.WithError(perr).Error("summary response unparsable")
		return models.SentinelSummary(), nil
	}
	return summary, nil
}

// parseSummary extracts the outermost JSON object before unmarshalling; the
// collaborator may wrap it in prose or code fences.
func parseSummary(raw string) (models.ConversationSummary, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.ConversationSummary{}, fmt.Errorf("no JSON object in response")
	}

	var summary models.ConversationSummary
	if err := json.Unmarshal([]byte(raw[start:end+1]), &summary); err != nil {
		return models.ConversationSummary{}, err
	}
	if summary.OverallSummary == "" {
		return models.ConversationSummary{}, fmt.Errorf("summary missing overallSummary")
	}

	if summary.Symptoms == nil {
		summary.Symptoms = []string{}
	}
	if summary.Diagnoses == nil {
		summary.Diagnoses = []string{}
	}
	if summary.Medications == nil {
		summary.Medications = []string{}
	}
	if summary.FollowUp == nil {
		summary.FollowUp = []string{}
	}
	return summary, nil
}
