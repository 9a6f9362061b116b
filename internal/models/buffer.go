package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TranscriptBuffer holds committed dictation segments while a capture is in
// flight, so a dropped connection does not lose already-final text. Expired
// by a TTL index.
type TranscriptBuffer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Seq       int64              `bson:"seq" json:"seq"`

	Text  string `bson:"text" json:"text"`
	Final bool   `bson:"final" json:"final"`
	Lang  string `bson:"lang,omitempty" json:"lang,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
