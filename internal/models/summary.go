package models

// ConversationSummary is the structured clinical summary rendered from a full
// transcript. Derived on demand, never persisted.
type ConversationSummary struct {
	Symptoms       []string `json:"symptoms"`
	Diagnoses      []string `json:"diagnoses"`
	Medications    []string `json:"medications"`
	FollowUp       []string `json:"followUp"`
	OverallSummary string   `json:"overallSummary"`
}

// SentinelSummary is returned whenever summarization fails for any reason, so
// callers always receive a fully-populated summary object.
func SentinelSummary() ConversationSummary {
	return ConversationSummary{
		Symptoms:       []string{"Analysis failed"},
		Diagnoses:      []string{"Could not process"},
		Medications:    []string{"Not extracted"},
		FollowUp:       []string{"Consult doctor"},
		OverallSummary: "AI summarization failed. Please review chat history.",
	}
}
