package stt

import "context"

// Result is one incremental transcription segment. Non-final segments replace
// each other; final segments are committed by the caller.
type Result struct {
	Text       string
	Final      bool
	Confidence float64
}

// Engine is the speech-to-text collaborator. A stream may be terminated by
// the engine unprompted; callers decide whether to reopen it.
type Engine interface {
	OpenStream(ctx context.Context, locale string) (Stream, error)
	Close() error
}

// Stream is a live transcription session over a continuous audio feed.
type Stream interface {
	Send(audio []byte) error
	// Results is closed when the engine ends the stream, spontaneously or
	// after Close.
	Results() <-chan Result
	Close() error
}
