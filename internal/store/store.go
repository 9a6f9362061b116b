package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/cache"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
)

const keyPrefix = "bridge:history:"

// Store persists each session's conversation log as a single durable record:
// read in full, rewritten in full on every mutation, last writer wins. O(n)
// per mutation, which is fine at consultation scale.
type Store struct {
	cache cache.Cache
	log   *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(c cache.Cache, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		cache: c,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func key(sessionID string) string { return keyPrefix + sessionID }

// Load reads the durable record. A missing or malformed record yields an
// empty log; the caller never sees an error.
func (s *Store) Load(ctx context.Context, sessionID string) []models.Message {
	var log []models.Message
	hit, err := s.cache.GetJSON(ctx, key(sessionID), &log)
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("history load failed, treating as empty")
		return nil
	}
	if !hit {
		return nil
	}
	return log
}

func (s *Store) persist(ctx context.Context, sessionID string, log []models.Message) error {
	return s.cache.SetJSON(ctx, key(sessionID), log, 0)
}

// Append adds a message at the end of the log and rewrites the record.
func (s *Store) Append(ctx context.Context, sessionID string, m models.Message) error {
	l := s.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	log := s.Load(ctx, sessionID)
	log = append(log, m)
	return s.persist(ctx, sessionID, log)
}

// Patch describes the single permitted post-creation mutation.
type Patch struct {
	TranslatedText *string
}

// ApplyPatch merges p into the message with the given id. Absent id is a
// no-op; translatedText is set at most once, so re-applying the same patch is
// idempotent and a second different value is ignored.
func (s *Store) ApplyPatch(ctx context.Context, sessionID, id string, p Patch) error {
	l := s.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()

	log := s.Load(ctx, sessionID)
	changed := false
	for i := range log {
		if log[i].ID != id {
			continue
		}
		if p.TranslatedText != nil && log[i].TranslatedText == "" {
			log[i].TranslatedText = *p.TranslatedText
			changed = true
		}
		break
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, sessionID, log)
}

// Clear empties the log and removes the durable record.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	l := s.sessionLock(sessionID)
	l.Lock()
	defer l.Unlock()
	return s.cache.Del(ctx, key(sessionID))
}

// Filter returns a read-only view of messages matching pred; the underlying
// log is never mutated. A nil pred returns the full log.
func (s *Store) Filter(ctx context.Context, sessionID string, pred func(models.Message) bool) []models.Message {
	log := s.Load(ctx, sessionID)
	if pred == nil {
		return log
	}
	var out []models.Message
	for _, m := range log {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
