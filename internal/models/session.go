package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConsultationSession is the configuration shared by both participants of a
// bridged consultation. Language settings are read at send time; changing
// them never rewrites messages already logged.
type ConsultationSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4

	ProviderLang string `bson:"provider_lang" json:"provider_lang"`
	PatientLang  string `bson:"patient_lang" json:"patient_lang"`
	Status       string `bson:"status" json:"status"` // active|ended

	CreatedBy string `bson:"created_by" json:"created_by"` // user uuid

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	DurationSeconds int64 `bson:"duration_seconds" json:"duration_seconds"`
}
