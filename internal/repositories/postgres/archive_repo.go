package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
)

type ArchiveRepo interface {
	Insert(ctx context.Context, row *models.ArchivedMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.ArchivedMessage, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type archiveRepo struct {
	db *gorm.DB
}

func NewArchiveRepo(db *gorm.DB) ArchiveRepo {
	return &archiveRepo{db: db}
}

func (r *archiveRepo) Insert(ctx context.Context, row *models.ArchivedMessage) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *archiveRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.ArchivedMessage, error) {
	if limit <= 0 {
		limit = 200
	}

	var rows []models.ArchivedMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *archiveRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.ArchivedMessage{}).Error
}
