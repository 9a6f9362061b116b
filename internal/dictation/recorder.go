package dictation

import "bytes"

// Recorder is the audio capture collaborator: it owns the raw stream between
// Start and Stop and assembles it into a single clip.
type Recorder interface {
	Start() error
	Write(chunk []byte) error
	Stop() (clip []byte, contentType string, err error)
}

// MemoryRecorder accumulates forwarded audio chunks in memory. The client
// ships WebM/Opus, so the clip is playable as received.
type MemoryRecorder struct {
	buf bytes.Buffer
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (r *MemoryRecorder) Start() error {
	r.buf.Reset()
	return nil
}

func (r *MemoryRecorder) Write(chunk []byte) error {
	_, err := r.buf.Write(chunk)
	return err
}

func (r *MemoryRecorder) Stop() ([]byte, string, error) {
	if r.buf.Len() == 0 {
		return nil, "", nil
	}
	clip := make([]byte, r.buf.Len())
	copy(clip, r.buf.Bytes())
	r.buf.Reset()
	return clip, "audio/webm", nil
}
