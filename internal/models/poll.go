package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */

// Poll represents a question users can vote on
type Poll struct {
	gorm.Model
	Title       string     `gorm:"column:title;size:255;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
	CreatedBy   uint       `gorm:"column:created_by;not null;index" json:"created_by"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true;index" json:"is_active"`

	Options []Option `gorm:"foreignKey:PollID" json:"options"`
}

// TableName specifies the table name for Poll
func (Poll) TableName() string {
	return "polls"
}

// IsExpired reports whether the poll expiry has passed. Polls without an
// expiry never expire.
func (p *Poll) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Votable reports whether the poll currently accepts votes.
func (p *Poll) Votable(now time.Time) bool {
	return p.IsActive && !p.IsExpired(now)
}

// Option represents one choice within a poll. The poll reference is fixed at
// creation time.
type Option struct {
	gorm.Model
	PollID uint   `gorm:"column:poll_id;not null;index" json:"poll_id"`
	Text   string `gorm:"column:text;size:255;not null" json:"text"`
}

// TableName specifies the table name for Option
func (Option) TableName() string {
	return "options"
}

/** -------------------- DTOs -------------------- */

// CreatePollRequest defines the input for creating a poll
type CreatePollRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Options     []string   `json:"options" binding:"required,min=2,dive,required,max=255"`
}

// OptionResponse is an option with its current vote count
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	VoteCount int64  `json:"vote_count"`
}

// PollResponse is the poll detail payload with live counts
type PollResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	CreatedBy   uint             `json:"created_by"`
	IsActive    bool             `json:"is_active"`
	IsExpired   bool             `json:"is_expired"`
	TotalVotes  int64            `json:"total_votes"`
	Options     []OptionResponse `json:"options"`
}

// SetPollActiveRequest toggles the manual active flag
type SetPollActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
