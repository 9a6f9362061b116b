package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleProvider Role = "provider"
	RolePatient  Role = "patient"
)

func (r Role) Valid() bool {
	return r == RoleProvider || r == RolePatient
}

// VoicePlaceholder stands in for the original text of an audio-only message.
const VoicePlaceholder = "[Voice Message]"

// Message is one entry of a session's conversation log. TranslatedText is
// filled in asynchronously once the translation completes; until then the
// message is pending.
type Message struct {
	ID             string    `json:"id"`
	SenderRole     Role      `json:"sender_role"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text,omitempty"`
	AudioURL       string    `json:"audio_url,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
}

// ArchivedMessage is the Postgres audit copy of a logged message, written by
// the archive worker off the Redis stream.
type ArchivedMessage struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID  string         `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	SenderRole string         `gorm:"column:sender_role;type:text" json:"sender_role"`
	Content    string         `gorm:"column:content;type:text" json:"content"`
	Timestamp  time.Time      `gorm:"column:timestamp;type:timestamptz" json:"timestamp"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
}

func (ArchivedMessage) TableName() string { return "message_archive" }
