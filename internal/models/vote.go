package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */

// Vote records one user's choice in one poll. Rows are append-only; the
// composite unique index is what makes concurrent duplicate submissions
// resolve to a single committed row.
type Vote struct {
	gorm.Model
	PollID   uint `gorm:"column:poll_id;not null;uniqueIndex:idx_votes_user_poll;index" json:"poll_id"`
	OptionID uint `gorm:"column:option_id;not null;index" json:"option_id"`
	UserID   uint `gorm:"column:user_id;not null;uniqueIndex:idx_votes_user_poll" json:"user_id"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}

/** -------------------- DTOs -------------------- */

// VoteRequest defines the input for casting a vote
type VoteRequest struct {
	PollID   uint `json:"poll" binding:"required"`
	OptionID uint `json:"option" binding:"required"`
}

// VoteResponse is returned after a vote has been committed
type VoteResponse struct {
	ID       uint      `json:"id"`
	PollID   uint      `json:"poll_id"`
	OptionID uint      `json:"option_id"`
	UserID   uint      `json:"user_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// VoteMessage is the payload published to the vote event stream
type VoteMessage struct {
	VoteID   uint      `json:"vote_id"`
	PollID   uint      `json:"poll_id"`
	OptionID uint      `json:"option_id"`
	UserID   uint      `json:"user_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// OptionResult pairs an option's text with its tally
type OptionResult struct {
	Option string `json:"option"`
	Votes  int64  `json:"votes"`
}

// PollResults is the computed tally snapshot served to readers
type PollResults struct {
	Poll       string         `json:"poll"`
	TotalVotes int64          `json:"total_votes"`
	Results    []OptionResult `json:"results"`
}
