package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/models"
)

// fakePollStore is an in-memory PollStore used by service tests. GetPoll and
// CountVotesByOption invocations are counted so cache behavior can be
// asserted.
type fakePollStore struct {
	mu       sync.Mutex
	polls    map[uint]*models.Poll
	nextID   uint
	getCalls int
}

func newFakePollStore() *fakePollStore {
	return &fakePollStore{polls: make(map[uint]*models.Poll)}
}

func (s *fakePollStore) CreatePoll(ctx context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	poll.ID = s.nextID
	poll.CreatedAt = time.Now()
	for i := range poll.Options {
		s.nextID++
		poll.Options[i].ID = s.nextID
		poll.Options[i].PollID = poll.ID
	}

	cp := clonePoll(poll)
	s.polls[poll.ID] = &cp
	return nil
}

func (s *fakePollStore) GetPoll(ctx context.Context, pollID uint) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++
	p, ok := s.polls[pollID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := clonePoll(p)
	return &cp, nil
}

func (s *fakePollStore) ListActivePolls(ctx context.Context) ([]models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Poll
	for _, p := range s.polls {
		if p.IsActive {
			out = append(out, clonePoll(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakePollStore) SetPollActive(ctx context.Context, pollID uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.polls[pollID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (s *fakePollStore) getPollCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls
}

func clonePoll(p *models.Poll) models.Poll {
	cp := *p
	cp.Options = append([]models.Option(nil), p.Options...)
	return cp
}

// fakeVoteStore enforces the (user, poll) uniqueness under a single lock,
// mirroring what the composite unique index does in the real store: the
// check and the insert are indivisible.
type fakeVoteStore struct {
	mu         sync.Mutex
	votes      map[string]models.Vote
	nextID     uint
	countCalls int
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: make(map[string]models.Vote)}
}

func (s *fakeVoteStore) InsertVoteAtomic(ctx context.Context, vote *models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%d:%d", vote.PollID, vote.UserID)
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}

	s.nextID++
	vote.ID = s.nextID
	vote.CreatedAt = time.Now()
	s.votes[key] = *vote
	return nil
}

func (s *fakeVoteStore) CountVotesByOption(ctx context.Context, pollID uint) (map[uint]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countCalls++
	counts := make(map[uint]int64)
	for _, v := range s.votes {
		if v.PollID == pollID {
			counts[v.OptionID]++
		}
	}
	return counts, nil
}

func (s *fakeVoteStore) voteCount(pollID, userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, v := range s.votes {
		if v.PollID == pollID && v.UserID == userID {
			n++
		}
	}
	return n
}

// brokenCache fails every operation, standing in for an unreachable backend.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("cache backend unavailable")
}

func (brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return fmt.Errorf("cache backend unavailable")
}

func (brokenCache) Invalidate(ctx context.Context, pollID uint) error {
	return fmt.Errorf("cache backend unavailable")
}

// capturePublisher records published vote events.
type capturePublisher struct {
	mu       sync.Mutex
	messages []models.VoteMessage
}

func (p *capturePublisher) PublishVote(ctx context.Context, msg models.VoteMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []models.VoteMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.VoteMessage(nil), p.messages...)
}

// seedPoll inserts a poll with the given option texts directly into the fake
// store and returns it.
func seedPoll(s *fakePollStore, title string, expiresAt *time.Time, active bool, optionTexts ...string) *models.Poll {
	poll := &models.Poll{
		Title:     title,
		ExpiresAt: expiresAt,
		CreatedBy: 1,
		IsActive:  active,
	}
	for _, text := range optionTexts {
		poll.Options = append(poll.Options, models.Option{Text: text})
	}
	if err := s.CreatePoll(context.Background(), poll); err != nil {
		panic(err)
	}
	if !active {
		_ = s.SetPollActive(context.Background(), poll.ID, false)
		poll.IsActive = false
	}
	return poll
}
