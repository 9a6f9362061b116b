package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/postgres"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type ProfileUpdate struct {
	FullName       *string         `json:"full_name"`
	Specialties    []string        `json:"specialties"`
	PreferredLangs []string        `json:"preferred_langs"`
	Preferences    json.RawMessage `json:"preferences"`
}

type ProfileService interface {
	Me(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error)
}

type profileService struct {
	profiles postgres.ProfileRepository
}

func NewProfileService(profiles postgres.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

// Me returns the stored profile, or an empty one for users who never saved.
func (s *profileService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Me"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return &models.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	const op = "ProfileService.Update"

	p, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.Specialties != nil {
		p.Specialties = pq.StringArray(upd.Specialties)
	}
	if upd.PreferredLangs != nil {
		for _, code := range upd.PreferredLangs {
			if !languages.Supported(code) {
				return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language code: "+code, nil)
			}
		}
		p.PreferredLangs = pq.StringArray(upd.PreferredLangs)
	}
	if len(upd.Preferences) > 0 {
		p.Preferences = datatypes.JSON(upd.Preferences)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}
