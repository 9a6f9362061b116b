package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/cache"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/store"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		delete(c.data, key)
		return false, nil
	}
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.mu.Unlock()
	return nil
}

var _ cache.Cache = (*memCache)(nil)

type fakeSessions struct {
	session *models.ConsultationSession
}

func (f *fakeSessions) Start(context.Context, string, string, string) (*models.ConsultationSession, error) {
	return f.session, nil
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (*models.ConsultationSession, error) {
	if f.session == nil || f.session.SessionID != sessionID {
		return nil, utils.E(utils.CodeNotFound, "fake", "session not found", nil)
	}
	return f.session, nil
}

func (f *fakeSessions) SetLanguages(context.Context, string, string, string) error { return nil }

func (f *fakeSessions) End(context.Context, string) (*models.ConsultationSession, error) {
	return f.session, nil
}

type fakeTranslator struct {
	mu        sync.Mutex
	out       string
	fail      bool // fall back to the source text with an error
	calls     int
	release   chan struct{} // when set, Translate blocks until closed
	blockText string        // when set, only this input blocks on release
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _, _, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if f.release != nil && (f.blockText == "" || text == f.blockText) {
		<-f.release
	}
	if fail {
		return text, errors.New("translate failed")
	}
	return f.out, nil
}

type fakeSummarizer struct {
	summary models.ConversationSummary
	err     error
	got     []models.Message
}

func (f *fakeSummarizer) Summarize(_ context.Context, messages []models.Message) (models.ConversationSummary, error) {
	f.got = messages
	return f.summary, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]any
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event any) error {
	p.mu.Lock()
	p.events = append(p.events, event.(map[string]any))
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e["type"].(string))
	}
	return out
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(discard{})
	return log
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newBridge(t *testing.T, tr Translator, sum Summarizer) (*bridgeService, *store.Store, *recordingPublisher) {
	t.Helper()
	st := store.New(newMemCache(), quietLogger())
	sessions := &fakeSessions{session: &models.ConsultationSession{
		SessionID:    "s1",
		ProviderLang: "en",
		PatientLang:  "es",
		Status:       "active",
	}}
	pub := &recordingPublisher{}
	svc := NewBridgeService(sessions, st, tr, sum, nil, nil, pub, quietLogger()).(*bridgeService)
	return svc, st, pub
}

func TestSendMessageTranslatesAsync(t *testing.T) {
	tr := &fakeTranslator{out: "¿Dónde le duele?"}
	svc, st, pub := newBridge(t, tr, &fakeSummarizer{})

	m, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "Where does it hurt?", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if m.SourceLang != "en" || m.TargetLang != "es" {
		t.Fatalf("language direction = %s->%s, want en->es", m.SourceLang, m.TargetLang)
	}
	svc.wg.Wait()

	log := st.Load(context.Background(), "s1")
	if len(log) != 1 {
		t.Fatalf("log length = %d, want 1", len(log))
	}
	if log[0].TranslatedText != "¿Dónde le duele?" {
		t.Fatalf("TranslatedText = %q", log[0].TranslatedText)
	}
	if log[0].OriginalText != "Where does it hurt?" {
		t.Fatalf("OriginalText = %q", log[0].OriginalText)
	}

	types := pub.types()
	if len(types) != 2 || types[0] != "message_added" || types[1] != "translation_patched" {
		t.Fatalf("published events = %v", types)
	}
}

func TestSendMessagePatientReversesDirection(t *testing.T) {
	svc, _, _ := newBridge(t, &fakeTranslator{out: "It hurts here"}, &fakeSummarizer{})

	m, err := svc.SendMessage(context.Background(), "s1", models.RolePatient, "Me duele aquí", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if m.SourceLang != "es" || m.TargetLang != "en" {
		t.Fatalf("language direction = %s->%s, want es->en", m.SourceLang, m.TargetLang)
	}
}

func TestSendMessageTranslationFailureLeavesPending(t *testing.T) {
	tr := &fakeTranslator{fail: true}
	svc, st, pub := newBridge(t, tr, &fakeSummarizer{})

	if _, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "Take two daily", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	svc.wg.Wait()

	log := st.Load(context.Background(), "s1")
	if log[0].TranslatedText != "" {
		t.Fatalf("TranslatedText = %q, want empty after failed translation", log[0].TranslatedText)
	}
	for _, typ := range pub.types() {
		if typ == "translation_patched" {
			t.Fatal("patch event published for failed translation")
		}
	}
}

func TestSendMessageSameLanguageSkipsTranslation(t *testing.T) {
	tr := &fakeTranslator{out: "unused"}
	st := store.New(newMemCache(), quietLogger())
	sessions := &fakeSessions{session: &models.ConsultationSession{
		SessionID: "s1", ProviderLang: "en", PatientLang: "en", Status: "active",
	}}
	svc := NewBridgeService(sessions, st, tr, &fakeSummarizer{}, nil, nil, nil, quietLogger()).(*bridgeService)

	if _, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "hello", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	svc.wg.Wait()
	if tr.calls != 0 {
		t.Fatalf("translator called %d times for same-language pair", tr.calls)
	}
}

func TestSendMessageAudioOnlyUsesPlaceholder(t *testing.T) {
	tr := &fakeTranslator{out: "unused"}
	svc, st, _ := newBridge(t, tr, &fakeSummarizer{})

	m, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "", "https://cdn.example/clip.webm")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if m.OriginalText != models.VoicePlaceholder {
		t.Fatalf("OriginalText = %q", m.OriginalText)
	}
	svc.wg.Wait()
	if tr.calls != 0 {
		t.Fatalf("translator called for audio-only message")
	}

	log := st.Load(context.Background(), "s1")
	if log[0].AudioURL != "https://cdn.example/clip.webm" {
		t.Fatalf("AudioURL = %q", log[0].AudioURL)
	}
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	svc, _, _ := newBridge(t, &fakeTranslator{}, &fakeSummarizer{})

	if _, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "   ", ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("empty message error = %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), "s1", "nurse", "hi", ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("bad role error = %v", err)
	}
}

func TestMessagesSearch(t *testing.T) {
	tr := &fakeTranslator{out: "Tiene fiebre"}
	svc, _, _ := newBridge(t, tr, &fakeSummarizer{})
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "Do you have a Fever?", ""); err != nil {
		t.Fatal(err)
	}
	svc.wg.Wait()
	tr.fail = true
	if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "Any allergies?", ""); err != nil {
		t.Fatal(err)
	}
	svc.wg.Wait()

	hits, err := svc.Messages(ctx, "s1", "fever")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(hits) != 1 || !strings.Contains(hits[0].OriginalText, "Fever") {
		t.Fatalf("search hits = %+v", hits)
	}

	// Matching the translated side counts too.
	hits, err = svc.Messages(ctx, "s1", "fiebre")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("translated-side hits = %d, want 1", len(hits))
	}

	all, err := svc.Messages(ctx, "s1", "")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("full log length = %d, want 2", len(all))
	}
}

func TestPurgeRequiresConfirmation(t *testing.T) {
	svc, st, pub := newBridge(t, &fakeTranslator{fail: true}, &fakeSummarizer{})
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "note", ""); err != nil {
		t.Fatal(err)
	}
	svc.wg.Wait()

	if err := svc.Purge(ctx, "s1", false); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("unconfirmed purge error = %v", err)
	}
	if got := st.Load(ctx, "s1"); len(got) != 1 {
		t.Fatalf("log length after refused purge = %d, want 1", len(got))
	}

	if err := svc.Purge(ctx, "s1", true); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if got := st.Load(ctx, "s1"); len(got) != 0 {
		t.Fatalf("log length after purge = %d, want 0", len(got))
	}

	types := pub.types()
	if types[len(types)-1] != "history_cleared" {
		t.Fatalf("last event = %q, want history_cleared", types[len(types)-1])
	}
}

func TestSummarizeLoadsFullLog(t *testing.T) {
	sum := &fakeSummarizer{summary: models.ConversationSummary{OverallSummary: "Routine visit."}}
	svc, _, _ := newBridge(t, &fakeTranslator{fail: true}, sum)
	ctx := context.Background()

	for _, text := range []string{"How are you?", "Fine."} {
		if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, text, ""); err != nil {
			t.Fatal(err)
		}
	}
	svc.wg.Wait()

	out, err := svc.Summarize(ctx, "s1")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out.OverallSummary != "Routine visit." {
		t.Fatalf("OverallSummary = %q", out.OverallSummary)
	}
	if len(sum.got) != 2 {
		t.Fatalf("summarizer saw %d messages, want 2", len(sum.got))
	}
}

func TestTranslatingFlagClearsOnAnyCompletion(t *testing.T) {
	release := make(chan struct{})
	tr := &fakeTranslator{out: "hola", release: release}
	svc, _, _ := newBridge(t, tr, &fakeSummarizer{})
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "hello", ""); err != nil {
		t.Fatal(err)
	}
	if !svc.Translating("s1") {
		t.Fatal("flag not set while translation in flight")
	}

	close(release)
	svc.wg.Wait()
	if svc.Translating("s1") {
		t.Fatal("flag still set after completion")
	}
}

// The flag tracks completions, not in-flight requests: once any request
// finishes it reads false even with an earlier request still running.
func TestTranslatingFlagStaleWhileEarlierRequestInFlight(t *testing.T) {
	release := make(chan struct{})
	tr := &fakeTranslator{out: "hola", release: release, blockText: "first message"}
	svc, st, _ := newBridge(t, tr, &fakeSummarizer{})
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "first message", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	second, err := svc.SendMessage(ctx, "s1", models.RoleProvider, "second message", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// wait for the unblocked second translation to land
	deadline := time.Now().Add(2 * time.Second)
	for {
		patched := false
		for _, m := range st.Load(ctx, "s1") {
			if m.ID == second.ID && m.TranslatedText != "" {
				patched = true
			}
		}
		if patched {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("second translation never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if svc.Translating("s1") {
		t.Fatal("flag still set after a later request completed, want last-completion-wins")
	}

	close(release)
	svc.wg.Wait()
	if svc.Translating("s1") {
		t.Fatal("flag set after all requests completed")
	}
}

// An output equal to the input with no error is a real translation and must
// be patched, not mistaken for a fallback.
func TestSendMessageIdentityTranslationIsPatched(t *testing.T) {
	tr := &fakeTranslator{out: "OK"}
	svc, st, _ := newBridge(t, tr, &fakeSummarizer{})

	if _, err := svc.SendMessage(context.Background(), "s1", models.RoleProvider, "OK", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	svc.wg.Wait()

	log := st.Load(context.Background(), "s1")
	if len(log) != 1 || log[0].TranslatedText != "OK" {
		t.Fatalf("identity translation not patched: %+v", log)
	}
}

func TestUnknownSessionRejected(t *testing.T) {
	svc, _, _ := newBridge(t, &fakeTranslator{}, &fakeSummarizer{})

	if _, err := svc.SendMessage(context.Background(), "nope", models.RoleProvider, "hi", ""); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("unknown session error = %v", err)
	}
	if _, err := svc.Messages(context.Background(), "nope", ""); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("unknown session error = %v", err)
	}
}
