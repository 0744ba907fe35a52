package postgres

import (
	"context"
	"errors"

	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/models"

	"gorm.io/gorm"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db}
}

// CreatePoll inserts a poll together with its options in one transaction, so
// a poll is never visible without its full option set.
func (r *PollRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
}

// GetPoll loads a poll with its options in creation order.
func (r *PollRepository) GetPoll(ctx context.Context, pollID uint) (*models.Poll, error) {
	var p models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		First(&p, pollID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListActivePolls returns polls with is_active set, newest first. Expiry is
// not filtered here; expired polls stay listed until deactivated, matching
// how the detail endpoint reports them.
func (r *PollRepository) ListActivePolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

// SetPollActive toggles the manual active flag.
func (r *PollRepository) SetPollActive(ctx context.Context, pollID uint, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Poll{}).
		Where("id = ?", pollID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
