package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"poll-service/internal/cache"
	"poll-service/internal/config"
	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/models"
)

// ResultService serves poll tallies through the result cache. The underlying
// aggregation always recomputes from the store's per-option counts, so the
// served total is the sum of the option counts by construction.
type ResultService struct {
	polls PollStore
	votes VoteStore
	cache cache.Cache
	ttl   config.CacheConfig
}

func NewResultService(polls PollStore, votes VoteStore, c cache.Cache, ttl config.CacheConfig) *ResultService {
	return &ResultService{polls: polls, votes: votes, cache: c, ttl: ttl}
}

// PollResults returns the tally for a poll, from cache when a fresh snapshot
// exists, otherwise recomputed and re-cached.
func (s *ResultService) PollResults(ctx context.Context, pollID uint) (*models.PollResults, error) {
	var cached models.PollResults
	err := s.cache.Get(ctx, cache.ResultsKey(pollID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		// A cache outage is an infrastructure fault; it must never read as
		// "poll not found".
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInternal, err)
	}

	results, err := s.Aggregate(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.ResultsKey(pollID), results, s.ttl.ResultsTTL); err != nil {
		slog.Error("Failed to cache poll results", "pollID", pollID, "error", err)
	}
	return results, nil
}

// Aggregate computes a fresh snapshot from the store, options in creation
// order.
func (s *ResultService) Aggregate(ctx context.Context, pollID uint) (*models.PollResults, error) {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	counts, err := s.votes.CountVotesByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := make([]models.OptionResult, 0, len(poll.Options))
	var total int64
	for _, opt := range poll.Options {
		n := counts[opt.ID]
		total += n
		results = append(results, models.OptionResult{Option: opt.Text, Votes: n})
	}

	return &models.PollResults{
		Poll:       poll.Title,
		TotalVotes: total,
		Results:    results,
	}, nil
}
