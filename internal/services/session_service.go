package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	mongorepo "github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/mongo"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type SessionService interface {
	Start(ctx context.Context, userID, providerLang, patientLang string) (*models.ConsultationSession, error)
	Get(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
	SetLanguages(ctx context.Context, sessionID, providerLang, patientLang string) error
	End(ctx context.Context, sessionID string) (*models.ConsultationSession, error)
}

type sessionService struct {
	sessions mongorepo.SessionRepository
}

func NewSessionService(sessions mongorepo.SessionRepository) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Start(ctx context.Context, userID, providerLang, patientLang string) (*models.ConsultationSession, error) {
	const op = "SessionService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if providerLang == "" {
		providerLang = "en"
	}
	if patientLang == "" {
		patientLang = "es"
	}
	if !languages.Supported(providerLang) || !languages.Supported(patientLang) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language code", nil)
	}

	now := time.Now().UTC()
	session := &models.ConsultationSession{
		SessionID:       uuid.NewString(),
		ProviderLang:    providerLang,
		PatientLang:     patientLang,
		Status:          "active",
		CreatedBy:       userID,
		CreatedAt:       now,
		DurationSeconds: 0,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	out, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return out, nil
}

// SetLanguages reconfigures the language pair. Messages already logged keep
// the codes they were created with.
func (s *sessionService) SetLanguages(ctx context.Context, sessionID, providerLang, patientLang string) error {
	const op = "SessionService.SetLanguages"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if !languages.Supported(providerLang) || !languages.Supported(patientLang) {
		return utils.E(utils.CodeInvalidArgument, op, "unsupported language code", nil)
	}
	if err := s.sessions.UpdateLanguages(ctx, sessionID, providerLang, patientLang); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update languages", err)
	}
	return nil
}

func (s *sessionService) End(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	const op = "SessionService.End"

	ss, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dur := int64(now.Sub(ss.CreatedAt).Seconds())
	if dur < 0 {
		dur = 0
	}

	if err := s.sessions.End(ctx, sessionID, now, dur); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
	}

	ss.Status = "ended"
	ss.EndedAt = &now
	ss.DurationSeconds = dur
	return ss, nil
}
