package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

func transcript() []models.Message {
	return []models.Message{
		{ID: "1", SenderRole: models.RoleProvider, OriginalText: "Where does it hurt?", Timestamp: time.Now()},
		{ID: "2", SenderRole: models.RolePatient, OriginalText: "My chest, and I have a fever", Timestamp: time.Now()},
	}
}

func TestSummarizeEmptyTranscriptFailsBeforeNetwork(t *testing.T) {
	p := &fakeProvider{reply: "{}"}
	s := NewSummarizer(p, nil)

	_, err := s.Summarize(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("collaborator must not be called, got %d calls", p.calls)
	}
}

func TestSummarizeParsesWrappedJSON(t *testing.T) {
	p := &fakeProvider{reply: "Here is the summary you asked for:\n```json\n" +
		`{"symptoms":["fever","chest pain"],"diagnoses":["possible angina"],"medications":[],"followUp":["ECG"],"overallSummary":"Patient reports chest pain and fever."}` +
		"\n```\nLet me know if you need anything else."}
	s := NewSummarizer(p, nil)

	got, err := s.Summarize(context.Background(), transcript())
	if err != nil {
		t.Fatalf("Summarize err: %v", err)
	}
	if len(got.Symptoms) != 2 || got.Symptoms[0] != "fever" {
		t.Fatalf("symptoms not parsed: %+v", got.Symptoms)
	}
	if got.Medications == nil {
		t.Fatal("list fields must never be nil")
	}
	if got.OverallSummary == "" {
		t.Fatal("overallSummary missing")
	}
}

func TestSummarizeCollaboratorErrorYieldsSentinel(t *testing.T) {
	p := &fakeProvider{err: errors.New("timeout")}
	s := NewSummarizer(p, nil)

	got, err := s.Summarize(context.Background(), transcript())
	if err != nil {
		t.Fatalf("failure must not propagate, got %v", err)
	}
	want := models.SentinelSummary()
	if got.OverallSummary != want.OverallSummary {
		t.Fatalf("expected sentinel summary, got %+v", got)
	}
	if len(got.Symptoms) != 1 || len(got.Diagnoses) != 1 || len(got.Medications) != 1 || len(got.FollowUp) != 1 {
		t.Fatal("sentinel summary must populate every list field")
	}
}

func TestSummarizeGarbageReplyYieldsSentinel(t *testing.T) {
	p := &fakeProvider{reply: "I could not really understand the conversation, sorry."}
	s := NewSummarizer(p, nil)

	got, err := s.Summarize(context.Background(), transcript())
	if err != nil {
		t.Fatalf("failure must not propagate, got %v", err)
	}
	if got.OverallSummary != models.SentinelSummary().OverallSummary {
		t.Fatalf("expected sentinel, got %+v", got)
	}
}

func TestSummarizeMissingFieldsYieldsSentinel(t *testing.T) {
	p := &fakeProvider{reply: `{"symptoms":["fever"]}`}
	s := NewSummarizer(p, nil)

	got, err := s.Summarize(context.Background(), transcript())
	if err != nil {
		t.Fatalf("failure must not propagate, got %v", err)
	}
	if got.OverallSummary != models.SentinelSummary().OverallSummary {
		t.Fatalf("expected sentinel for partial reply, got %+v", got)
	}
}
