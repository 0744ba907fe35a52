package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/config"
	domainerrors "poll-service/internal/domain/errors"
	"poll-service/internal/events"
	"poll-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Backend:    "memory",
		ListTTL:    5 * time.Minute,
		DetailTTL:  2 * time.Minute,
		ResultsTTL: time.Minute,
	}
}

func TestCastVoteSuccess(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	publisher := &capturePublisher{}
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), publisher)

	poll := seedPoll(polls, "Color", nil, true, "Red", "Blue")

	vote, err := svc.CastVote(context.Background(), 42, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, poll.ID, vote.PollID)
	assert.Equal(t, poll.Options[0].ID, vote.OptionID)
	assert.Equal(t, uint(42), vote.UserID)

	require.Len(t, publisher.published(), 1)
	assert.Equal(t, vote.ID, publisher.published()[0].VoteID)
}

func TestCastVotePollNotFound(t *testing.T) {
	svc := NewVoteService(newFakePollStore(), newFakeVoteStore(), cache.NewMemoryCache(), events.NoopPublisher{})

	_, err := svc.CastVote(context.Background(), 1, models.VoteRequest{PollID: 999, OptionID: 1})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCastVoteInactivePoll(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), events.NoopPublisher{})

	poll := seedPoll(polls, "Closed", nil, false, "A", "B")

	_, err := svc.CastVote(context.Background(), 1, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrPollClosed)
	assert.Equal(t, 0, votes.voteCount(poll.ID, 1))
}

func TestCastVoteExpiredPoll(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), events.NoopPublisher{})

	expiry := time.Now().Add(time.Hour)
	poll := seedPoll(polls, "Expiring", &expiry, true, "A", "B")

	// Move the service clock past the expiry.
	svc.now = func() time.Time { return expiry.Add(time.Second) }

	_, err := svc.CastVote(context.Background(), 1, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrPollClosed)
	assert.Equal(t, 0, votes.voteCount(poll.ID, 1))
}

func TestCastVoteOptionFromAnotherPoll(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), events.NoopPublisher{})

	poll := seedPoll(polls, "First", nil, true, "A", "B")
	other := seedPoll(polls, "Second", nil, true, "X", "Y")

	_, err := svc.CastVote(context.Background(), 1, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: other.Options[0].ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, 0, votes.voteCount(poll.ID, 1))
}

func TestCastVoteDuplicateReturnsAlreadyVoted(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), events.NoopPublisher{})

	poll := seedPoll(polls, "Color", nil, true, "Red", "Blue")

	_, err := svc.CastVote(context.Background(), 7, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	require.NoError(t, err)

	// Retry, even with a different option, is rejected and changes nothing.
	_, err = svc.CastVote(context.Background(), 7, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[1].ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)
	assert.Equal(t, 1, votes.voteCount(poll.ID, 7))
}

// TestCastVoteConcurrentSameVoter fires N concurrent attempts from one
// identity and requires exactly one commit; every loser sees AlreadyVoted,
// never an internal fault.
func TestCastVoteConcurrentSameVoter(t *testing.T) {
	const attempts = 25

	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, cache.NewMemoryCache(), events.NoopPublisher{})

	poll := seedPoll(polls, "Race", nil, true, "A", "B")

	var committed, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			req := models.VoteRequest{
				PollID:   poll.ID,
				OptionID: poll.Options[n%2].ID,
			}
			_, err := svc.CastVote(context.Background(), 7, req)
			switch {
			case err == nil:
				committed.Add(1)
			case assert.ErrorIs(t, err, domainerrors.ErrAlreadyVoted):
				rejected.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), committed.Load())
	assert.Equal(t, int32(attempts-1), rejected.Load())
	assert.Equal(t, 1, votes.voteCount(poll.ID, 7))
}

// TestCastVoteInvalidatesResults verifies the freshness guarantee: a read
// immediately after a successful vote never serves the pre-vote tally, even
// within the TTL window.
func TestCastVoteInvalidatesResults(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	c := cache.NewMemoryCache()
	voteSvc := NewVoteService(polls, votes, c, events.NoopPublisher{})
	resultSvc := NewResultService(polls, votes, c, testCacheConfig())

	poll := seedPoll(polls, "Fresh", nil, true, "A", "B")
	ctx := context.Background()

	before, err := resultSvc.PollResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before.TotalVotes)

	_, err = voteSvc.CastVote(ctx, 9, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	require.NoError(t, err)

	after, err := resultSvc.PollResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.TotalVotes)
	assert.Equal(t, int64(1), after.Results[0].Votes)
}

// TestVotingScenarioColor walks the documented end-to-end scenario: two
// voters, one retry, stable tallies.
func TestVotingScenarioColor(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	c := cache.NewMemoryCache()
	voteSvc := NewVoteService(polls, votes, c, events.NoopPublisher{})
	resultSvc := NewResultService(polls, votes, c, testCacheConfig())

	poll := seedPoll(polls, "Color", nil, true, "Red", "Blue")
	red, blue := poll.Options[0].ID, poll.Options[1].ID
	ctx := context.Background()

	_, err := voteSvc.CastVote(ctx, 1, models.VoteRequest{PollID: poll.ID, OptionID: red})
	require.NoError(t, err)
	_, err = voteSvc.CastVote(ctx, 2, models.VoteRequest{PollID: poll.ID, OptionID: blue})
	require.NoError(t, err)

	_, err = voteSvc.CastVote(ctx, 1, models.VoteRequest{PollID: poll.ID, OptionID: red})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)

	results, err := resultSvc.PollResults(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Color", results.Poll)
	assert.Equal(t, int64(2), results.TotalVotes)
	require.Len(t, results.Results, 2)
	assert.Equal(t, models.OptionResult{Option: "Red", Votes: 1}, results.Results[0])
	assert.Equal(t, models.OptionResult{Option: "Blue", Votes: 1}, results.Results[1])
}

func TestCastVoteCacheInvalidationFailureSurfaces(t *testing.T) {
	polls := newFakePollStore()
	votes := newFakeVoteStore()
	svc := NewVoteService(polls, votes, brokenCache{}, events.NoopPublisher{})

	poll := seedPoll(polls, "Broken", nil, true, "A", "B")

	_, err := svc.CastVote(context.Background(), 1, models.VoteRequest{
		PollID:   poll.ID,
		OptionID: poll.Options[0].ID,
	})
	// The vote row is committed, but the caller must hear about the broken
	// freshness contract as an infrastructure fault.
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
	assert.Equal(t, 1, votes.voteCount(poll.ID, 1))
}
