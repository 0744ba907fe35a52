package postgres

import (
	"context"
	"errors"

	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db}
}

// InsertVoteAtomic commits a vote with a single constrained INSERT. The
// unique index on (poll_id, user_id) is the only duplicate check: two
// concurrent inserts for the same pair race inside the database, one row
// wins and the loser surfaces here as ErrAlreadyVoted. There is no
// existence check before the insert.
func (r *VoteRepository) InsertVoteAtomic(ctx context.Context, vote *models.Vote) error {
	err := r.db.WithContext(ctx).Create(vote).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// CountVotesByOption tallies committed votes per option for one poll.
func (r *VoteRepository) CountVotesByOption(ctx context.Context, pollID uint) (map[uint]int64, error) {
	type row struct {
		OptionID uint
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("option_id, COUNT(*) AS total").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OptionID] = r.Total
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
