package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/config"
	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/models"
)

// PollService covers poll creation and the cached read side of poll listing
// and detail. Reads go through the cache; creation writes the store directly
// and does not touch any cache entry (no result exists for a fresh poll yet).
type PollService struct {
	polls PollStore
	votes VoteStore
	cache cache.Cache
	ttl   config.CacheConfig

	now func() time.Time
}

func NewPollService(polls PollStore, votes VoteStore, c cache.Cache, ttl config.CacheConfig) *PollService {
	return &PollService{
		polls: polls,
		votes: votes,
		cache: c,
		ttl:   ttl,
		now:   time.Now,
	}
}

// CreatePoll validates and persists a poll with its options.
func (s *PollService) CreatePoll(ctx context.Context, ownerID uint, req models.CreatePollRequest) (*models.PollResponse, error) {
	if len(req.Options) < 2 {
		return nil, fmt.Errorf("%w: a poll must have at least 2 options", domainerrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(req.Options))
	for _, text := range req.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, fmt.Errorf("%w: option text must not be empty", domainerrors.ErrValidation)
		}
		if _, dup := seen[text]; dup {
			return nil, fmt.Errorf("%w: options must be unique", domainerrors.ErrValidation)
		}
		seen[text] = struct{}{}
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: expiry date must be in the future", domainerrors.ErrValidation)
	}

	poll := &models.Poll{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   ownerID,
		IsActive:    true,
	}
	for _, text := range req.Options {
		poll.Options = append(poll.Options, models.Option{Text: strings.TrimSpace(text)})
	}

	if err := s.polls.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}

	resp := buildPollResponse(poll, nil, s.now())
	return &resp, nil
}

// ListActivePolls serves the active poll listing through the cache. The
// listing entry is refreshed by TTL only; individual votes do not invalidate
// it.
func (s *PollService) ListActivePolls(ctx context.Context) ([]models.PollResponse, error) {
	var cached []models.PollResponse
	err := s.cache.Get(ctx, cache.ActivePollsKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInternal, err)
	}

	polls, err := s.polls.ListActivePolls(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := make([]models.PollResponse, 0, len(polls))
	for i := range polls {
		counts, err := s.votes.CountVotesByOption(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, buildPollResponse(&polls[i], counts, now))
	}

	if err := s.cache.Set(ctx, cache.ActivePollsKey, resp, s.ttl.ListTTL); err != nil {
		slog.Error("Failed to cache poll listing", "error", err)
	}
	return resp, nil
}

// GetPoll serves poll detail through the cache.
func (s *PollService) GetPoll(ctx context.Context, pollID uint) (*models.PollResponse, error) {
	var cached models.PollResponse
	err := s.cache.Get(ctx, cache.DetailKey(pollID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInternal, err)
	}

	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	counts, err := s.votes.CountVotesByOption(ctx, pollID)
	if err != nil {
		return nil, err
	}

	resp := buildPollResponse(poll, counts, s.now())
	if err := s.cache.Set(ctx, cache.DetailKey(pollID), resp, s.ttl.DetailTTL); err != nil {
		slog.Error("Failed to cache poll detail", "pollID", pollID, "error", err)
	}
	return &resp, nil
}

// SetPollActive toggles the manual active flag. Only the poll owner or an
// admin may do this. Cached entries for the poll are removed so readers see
// the new state immediately.
func (s *PollService) SetPollActive(ctx context.Context, pollID, userID uint, isAdmin, active bool) error {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.CreatedBy != userID && !isAdmin {
		return domainerrors.ErrForbidden
	}

	if err := s.polls.SetPollActive(ctx, pollID, active); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, pollID); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrInternal, err)
	}
	return nil
}

// buildPollResponse assembles the read payload. Total votes is always the
// sum of the per-option counts, never a stored figure.
func buildPollResponse(poll *models.Poll, counts map[uint]int64, now time.Time) models.PollResponse {
	options := make([]models.OptionResponse, 0, len(poll.Options))
	var total int64
	for _, opt := range poll.Options {
		n := counts[opt.ID]
		total += n
		options = append(options, models.OptionResponse{
			ID:        opt.ID,
			Text:      opt.Text,
			VoteCount: n,
		})
	}

	return models.PollResponse{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		CreatedAt:   poll.CreatedAt,
		ExpiresAt:   poll.ExpiresAt,
		CreatedBy:   poll.CreatedBy,
		IsActive:    poll.IsActive,
		IsExpired:   poll.IsExpired(now),
		TotalVotes:  total,
		Options:     options,
	}
}
