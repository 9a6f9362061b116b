package dictation

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/events"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/providers/stt"
	mongorepo "github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/mongo"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/storage"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type State int

const (
	StateIdle State = iota
	StateCapturing
	StateFinalizing
)

// Utterance is what a finished capture hands back to the controller.
type Utterance struct {
	Text     string
	AudioURL string
}

// Session drives one live dictation: idle -> capturing -> finalizing -> idle.
// Interim engine segments replace the live preview; final segments accumulate
// in the committed buffer. The engine stream and recorder are owned
// exclusively between Start and teardown, on every exit path.
type Session struct {
	engine    stt.Engine
	uploader  storage.Uploader           // optional
	buffers   mongorepo.BufferRepository // optional, best-effort
	publisher events.Publisher           // optional
	log       *logrus.Logger

	sessionID string
	bufTTL    time.Duration

	mu        sync.Mutex
	state     State
	gen       int
	ctx       context.Context
	locale    string
	stream    stt.Stream
	recorder  Recorder
	committed strings.Builder
	preview   string
	seq       int64
}

type Deps struct {
	Engine    stt.Engine
	Recorder  Recorder // defaults to MemoryRecorder
	Uploader  storage.Uploader
	Buffers   mongorepo.BufferRepository
	Publisher events.Publisher
	Logger    *logrus.Logger
	BufferTTL time.Duration
}

func NewSession(sessionID string, d Deps) *Session {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	if d.Recorder == nil {
		d.Recorder = NewMemoryRecorder()
	}
	if d.BufferTTL <= 0 {
		d.BufferTTL = 24 * time.Hour
	}
	return &Session{
		engine:    d.Engine,
		uploader:  d.Uploader,
		buffers:   d.Buffers,
		publisher: d.Publisher,
		log:       d.Logger,
		sessionID: sessionID,
		bufTTL:    d.BufferTTL,
		recorder:  d.Recorder,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves idle -> capturing. Starting while already capturing is a
// no-op; a device or engine failure surfaces immediately and leaves the
// session idle with nothing held.
func (s *Session) Start(ctx context.Context, locale string) error {
	const op = "DictationSession.Start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return nil
	}
	if s.engine == nil {
		return utils.E(utils.CodeUnavailable, op, "speech engine not configured", nil)
	}

	if err := s.recorder.Start(); err != nil {
		return utils.E(utils.CodeUnavailable, op, "audio capture unavailable", err)
	}

	stream, err := s.engine.OpenStream(ctx, locale)
	if err != nil {
		_, _, _ = s.recorder.Stop()
		return utils.E(utils.CodeUnavailable, op, "speech engine unavailable", err)
	}

	s.state = StateCapturing
	s.ctx = ctx
	s.locale = locale
	s.stream = stream
	s.committed.Reset()
	s.preview = ""
	s.seq = 0
	s.gen++

	go s.consume(stream, s.gen)
	return nil
}

// PushAudio feeds a chunk to both the recorder and the recognition stream.
// Chunks arriving outside capturing are dropped.
func (s *Session) PushAudio(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCapturing || len(chunk) == 0 {
		return
	}
	if err := s.recorder.Write(chunk); err != nil {
		s.log.WithError(err).Warn("recorder write failed")
	}
	if err := s.stream.Send(chunk); err != nil {
		s.log.WithError(err).Warn("engine send failed")
	}
}

// consume drains one engine stream. The engine may end a stream on its own
// (silence timeout); while still capturing that is not an error and the
// stream is reopened transparently.
func (s *Session) consume(stream stt.Stream, gen int) {
	for res := range stream.Results() {
		s.mu.Lock()
		if s.state != StateCapturing || s.gen != gen {
			s.mu.Unlock()
			return
		}
		if res.Final {
			s.committed.WriteString(res.Text)
			s.preview = ""
			s.seq++
			s.persistSegment(res.Text, s.seq)
		} else {
			s.preview = res.Text
		}
		text := s.committed.String() + s.preview
		s.mu.Unlock()

		s.publish(map[string]any{
			"type":  events.TypeInterim,
			"text":  text,
			"final": res.Final,
		})
	}

	s.mu.Lock()
	if s.state != StateCapturing || s.gen != gen {
		s.mu.Unlock()
		return
	}

	next, err := s.engine.OpenStream(s.ctx, s.locale)
	if err != nil {
		s.log.WithError(err).Warn("engine restart failed")
		s.mu.Unlock()
		return
	}
	s.stream = next
	s.gen++
	gen = s.gen
	s.mu.Unlock()

	go s.consume(next, gen)
}

// persistSegment mirrors a committed segment to the transcript buffer.
// Best-effort; called with s.mu held, so the write runs detached.
func (s *Session) persistSegment(text string, seq int64) {
	if s.buffers == nil {
		return
	}
	doc := &models.TranscriptBuffer{
		SessionID: s.sessionID,
		Seq:       seq,
		Text:      text,
		Final:     true,
		Lang:      s.locale,
		Timestamp: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(s.bufTTL),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.buffers.InsertSegment(ctx, doc); err != nil {
			s.log.WithError(err).Warn("transcript buffer insert failed")
		}
	}()
}

func (s *Session) publish(event map[string]any) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, s.sessionID, event); err != nil {
		s.log.WithError(err).Warn("event publish failed")
	}
}

// Stop moves capturing -> finalizing -> idle and assembles the result.
// Stop while idle is a no-op. With no committed text the last preview is
// used; with no text and no audio at all, no utterance is produced.
func (s *Session) Stop(ctx context.Context) (Utterance, bool, error) {
	s.mu.Lock()
	if s.state != StateCapturing {
		s.mu.Unlock()
		return Utterance{}, false, nil
	}
	s.state = StateFinalizing

	stream := s.stream
	s.stream = nil
	text := strings.TrimSpace(s.committed.String())
	if text == "" {
		text = strings.TrimSpace(s.preview)
	}
	s.committed.Reset()
	s.preview = ""
	s.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
	}
	clip, contentType, err := s.recorder.Stop()
	if err != nil {
		s.log.WithError(err).Warn("recorder stop failed")
		clip = nil
	}

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	if text == "" && len(clip) == 0 {
		return Utterance{}, false, nil
	}

	var audioURL string
	if len(clip) > 0 && s.uploader != nil {
		name := "clips/" + s.sessionID + "/" + uuid.NewString() + ".webm"
		url, uerr := s.uploader.Upload(ctx, name, contentType, bytes.NewReader(clip))
		if uerr != nil {
			s.log.WithError(uerr).Warn("clip upload failed")
		} else {
			audioURL = url
		}
	}

	if text == "" && audioURL == "" {
		return Utterance{}, false, nil
	}
	return Utterance{Text: text, AudioURL: audioURL}, true, nil
}
