package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/events"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	mongorepo "github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/mongo"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/store"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

const translateTimeout = 45 * time.Second

// Translator produces a rendering of text in the target language. A failed
// translation returns the source text unchanged alongside a non-nil error;
// an output equal to the input with a nil error is a real translation.
type Translator interface {
	Translate(ctx context.Context, text, srcCode, dstCode, srcName, dstName string) (string, error)
}

// Summarizer condenses a message log into a structured clinical summary.
type Summarizer interface {
	Summarize(ctx context.Context, messages []models.Message) (models.ConversationSummary, error)
}

// ArchiveQueue accepts message rows for asynchronous archiving.
type ArchiveQueue interface {
	Enqueue(ctx context.Context, row *models.ArchivedMessage) error
}

type BridgeService interface {
	SendMessage(ctx context.Context, sessionID string, role models.Role, text, audioURL string) (*models.Message, error)
	Messages(ctx context.Context, sessionID, query string) ([]models.Message, error)
	Purge(ctx context.Context, sessionID string, confirmed bool) error
	Summarize(ctx context.Context, sessionID string) (models.ConversationSummary, error)
	Translating(sessionID string) bool
}

type bridgeService struct {
	sessions   SessionService
	store      *store.Store
	translator Translator
	summarizer Summarizer
	archive    ArchiveQueue
	buffers    mongorepo.BufferRepository
	publisher  events.Publisher
	log        *logrus.Logger

	mu          sync.Mutex
	translating map[string]bool

	// wg tracks in-flight translation goroutines so tests can drain them.
	wg sync.WaitGroup
}

func NewBridgeService(
	sessions SessionService,
	st *store.Store,
	translator Translator,
	summarizer Summarizer,
	archive ArchiveQueue,
	buffers mongorepo.BufferRepository,
	publisher events.Publisher,
	log *logrus.Logger,
) BridgeService {
	return &bridgeService{
		sessions:    sessions,
		store:       st,
		translator:  translator,
		summarizer:  summarizer,
		archive:     archive,
		buffers:     buffers,
		publisher:   publisher,
		log:         log,
		translating: make(map[string]bool),
	}
}

func (b *bridgeService) SendMessage(ctx context.Context, sessionID string, role models.Role, text, audioURL string) (*models.Message, error) {
	const op = "BridgeService.SendMessage"

	if !role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "sender role must be provider or patient", nil)
	}
	text = strings.TrimSpace(text)
	if text == "" && audioURL == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message needs text or audio", nil)
	}

	session, err := b.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Language direction is fixed at send time from the session's current
	// settings. Later language changes never touch this message.
	srcLang, dstLang := session.ProviderLang, session.PatientLang
	if role == models.RolePatient {
		srcLang, dstLang = session.PatientLang, session.ProviderLang
	}

	original := text
	if original == "" {
		original = models.VoicePlaceholder
	}

	m := models.Message{
		ID:           uuid.NewString(),
		SenderRole:   role,
		OriginalText: original,
		AudioURL:     audioURL,
		Timestamp:    time.Now().UTC(),
		SourceLang:   srcLang,
		TargetLang:   dstLang,
	}

	if err := b.store.Append(ctx, sessionID, m); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to append message", err)
	}

	if b.archive != nil {
		meta, _ := json.Marshal(map[string]string{
			"source_lang": srcLang,
			"target_lang": dstLang,
			"audio_url":   audioURL,
		})
		row := &models.ArchivedMessage{
			ID:         m.ID,
			SessionID:  sessionID,
			SenderRole: string(role),
			Content:    m.OriginalText,
			Timestamp:  m.Timestamp,
			Metadata:   meta,
		}
		if err := b.archive.Enqueue(ctx, row); err != nil {
			b.log.WithError(err).WithField("session_id", sessionID).Warn("failed to enqueue archive row")
		}
	}

	b.publish(ctx, sessionID, map[string]any{
		"type":    events.TypeMessageAdded,
		"message": m,
	})

	if text != "" && srcLang != dstLang {
		b.startTranslation(sessionID, m, srcLang, dstLang)
	}

	return &m, nil
}

func (b *bridgeService) startTranslation(sessionID string, m models.Message, srcLang, dstLang string) {
	b.mu.Lock()
	b.translating[sessionID] = true
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), translateTimeout)
		defer cancel()

		// Completion of any request clears the flag, even with an older
		// request still in flight.
		defer func() {
			b.mu.Lock()
			b.translating[sessionID] = false
			b.mu.Unlock()
		}()

		translated, terr := b.translator.Translate(ctx, m.OriginalText,
			srcLang, dstLang,
			languages.Name(srcLang), languages.Name(dstLang))
		if terr != nil {
			// gateway fell back to the source text; leave the message
			// pending rather than patch a copy
			return
		}

		if err := b.store.ApplyPatch(ctx, sessionID, m.ID, store.Patch{TranslatedText: &translated}); err != nil {
			b.log.WithError(err).WithFields(logrus.Fields{
				"session_id": sessionID,
				"message_id": m.ID,
			}).Warn("failed to patch translation")
			return
		}

		b.publish(ctx, sessionID, map[string]any{
			"type":            events.TypePatched,
			"message_id":      m.ID,
			"translated_text": translated,
		})
	}()
}

// Translating reports whether the last translation request for the session is
// still in flight.
func (b *bridgeService) Translating(sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.translating[sessionID]
}

func (b *bridgeService) Messages(ctx context.Context, sessionID, query string) ([]models.Message, error) {
	if _, err := b.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return b.store.Load(ctx, sessionID), nil
	}

	needle := strings.ToLower(query)
	return b.store.Filter(ctx, sessionID, func(m models.Message) bool {
		return strings.Contains(strings.ToLower(m.OriginalText), needle) ||
			strings.Contains(strings.ToLower(m.TranslatedText), needle)
	}), nil
}

func (b *bridgeService) Purge(ctx context.Context, sessionID string, confirmed bool) error {
	const op = "BridgeService.Purge"

	if !confirmed {
		return utils.E(utils.CodeInvalidArgument, op, "purge requires explicit confirmation", nil)
	}
	if _, err := b.sessions.Get(ctx, sessionID); err != nil {
		return err
	}

	if err := b.store.Clear(ctx, sessionID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to clear message log", err)
	}
	if b.buffers != nil {
		if err := b.buffers.DeleteBySession(ctx, sessionID); err != nil {
			b.log.WithError(err).WithField("session_id", sessionID).Warn("failed to drop transcript buffers")
		}
	}

	b.publish(ctx, sessionID, map[string]any{"type": events.TypeHistoryClear})
	return nil
}

func (b *bridgeService) Summarize(ctx context.Context, sessionID string) (models.ConversationSummary, error) {
	if _, err := b.sessions.Get(ctx, sessionID); err != nil {
		return models.ConversationSummary{}, err
	}
	log := b.store.Load(ctx, sessionID)
	return b.summarizer.Summarize(ctx, log)
}

func (b *bridgeService) publish(ctx context.Context, sessionID string, event any) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, sessionID, event); err != nil {
		b.log.WithError(err).WithField("session_id", sessionID).Warn("failed to publish session event")
	}
}
