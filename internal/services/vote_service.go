package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"poll-service/internal/cache"
	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/events"
	"poll-service/internal/models"
)

// VoteService is the only path that creates vote records. Its contract: for
// any set of concurrent attempts by one voter on one poll, exactly one
// commits and the rest get ErrAlreadyVoted; the result cache for the poll is
// invalidated before the commit is acknowledged.
type VoteService struct {
	polls     PollStore
	votes     VoteStore
	cache     cache.Cache
	publisher events.Publisher

	now func() time.Time
}

func NewVoteService(polls PollStore, votes VoteStore, c cache.Cache, publisher events.Publisher) *VoteService {
	return &VoteService{
		polls:     polls,
		votes:     votes,
		cache:     c,
		publisher: publisher,
		now:       time.Now,
	}
}

// CastVote validates and atomically commits a vote attempt.
func (s *VoteService) CastVote(ctx context.Context, userID uint, req models.VoteRequest) (*models.VoteResponse, error) {
	poll, err := s.polls.GetPoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	if !poll.Votable(s.now()) {
		if poll.IsExpired(s.now()) {
			return nil, fmt.Errorf("%w: poll has expired", domainerrors.ErrPollClosed)
		}
		return nil, fmt.Errorf("%w: poll is no longer active", domainerrors.ErrPollClosed)
	}

	if !pollHasOption(poll, req.OptionID) {
		return nil, fmt.Errorf("%w: selected option does not belong to this poll", domainerrors.ErrValidation)
	}

	vote := &models.Vote{
		PollID:   req.PollID,
		OptionID: req.OptionID,
		UserID:   userID,
	}
	// Duplicate detection happens inside the insert; ErrAlreadyVoted is the
	// expected result of a lost race, not a fault.
	if err := s.votes.InsertVoteAtomic(ctx, vote); err != nil {
		return nil, err
	}

	// The commit is acknowledged only after the poll's cached results are
	// gone, so the next read cannot serve the pre-vote tally.
	if err := s.cache.Invalidate(ctx, vote.PollID); err != nil {
		return nil, fmt.Errorf("%w: vote committed but cache invalidation failed: %v", domainerrors.ErrInternal, err)
	}

	if err := s.publisher.PublishVote(ctx, models.VoteMessage{
		VoteID:   vote.ID,
		PollID:   vote.PollID,
		OptionID: vote.OptionID,
		UserID:   vote.UserID,
		VotedAt:  vote.CreatedAt,
	}); err != nil {
		slog.Error("Failed to publish vote event", "pollID", vote.PollID, "error", err)
	}

	return &models.VoteResponse{
		ID:       vote.ID,
		PollID:   vote.PollID,
		OptionID: vote.OptionID,
		UserID:   vote.UserID,
		VotedAt:  vote.CreatedAt,
	}, nil
}

func pollHasOption(poll *models.Poll, optionID uint) bool {
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
