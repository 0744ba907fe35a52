package ratelimit

import (
	"context"
	"time"

	"poll-service/internal/config"
)

// Op is an operation class with its own request budget.
type Op string

const (
	OpList    Op = "list"
	OpDetail  Op = "detail"
	OpResults Op = "results"
	OpVote    Op = "vote"
	OpCreate  Op = "create"
)

// Limiter enforces per-(identity, operation) request budgets over a sliding
// window. Allow returns nil when the request fits the budget,
// domain ErrRateLimited when it does not, and any other error when the
// backing store failed. On a backend error the caller must reject the
// request (fail-closed), never silently allow it.
type Limiter interface {
	Allow(ctx context.Context, identity string, op Op) error
}

// Budgets maps each operation class to its request limit within Window.
type Budgets struct {
	Window time.Duration
	Limits map[Op]int
}

// BudgetsFromConfig builds the per-operation budget table.
func BudgetsFromConfig(cfg *config.RateLimitConfig) Budgets {
	return Budgets{
		Window: cfg.Window,
		Limits: map[Op]int{
			OpList:    cfg.List,
			OpDetail:  cfg.Detail,
			OpResults: cfg.Results,
			OpVote:    cfg.Vote,
			OpCreate:  cfg.Create,
		},
	}
}
