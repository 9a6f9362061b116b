package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Profile struct {
	UserID   string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`

	Specialties    pq.StringArray `gorm:"column:specialties;type:text[]" json:"specialties"`
	PreferredLangs pq.StringArray `gorm:"column:preferred_langs;type:text[]" json:"preferred_langs"`

	// JSONB, structure left to the client (notification/display settings)
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
