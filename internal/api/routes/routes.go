package routes

import (
	"poll-service/internal/api/handlers"
	"poll-service/internal/api/middleware"
	"poll-service/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router wires the middleware chain around the poll and vote handlers. All
// components arrive constructed; nothing here reaches for ambient state.
type Router struct {
	engine      *gin.Engine
	pollHandler *handlers.PollHandler
	voteHandler *handlers.VoteHandler
	rateLimitMW *middleware.RateLimitMiddleware
	authMW      *middleware.AuthMiddleware
}

func NewRouter(
	pollHandler *handlers.PollHandler,
	voteHandler *handlers.VoteHandler,
	rateLimitMW *middleware.RateLimitMiddleware,
	authMW *middleware.AuthMiddleware,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.LogAPI())

	return &Router{
		engine:      engine,
		pollHandler: pollHandler,
		voteHandler: voteHandler,
		rateLimitMW: rateLimitMW,
		authMW:      authMW,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	// Public reads, budgeted per network origin.
	api.GET("/polls",
		r.rateLimitMW.ByIP(ratelimit.OpList),
		r.pollHandler.ListPolls,
	)
	api.GET("/polls/:id",
		r.rateLimitMW.ByIP(ratelimit.OpDetail),
		r.pollHandler.GetPoll,
	)
	api.GET("/polls/:id/results",
		r.rateLimitMW.ByIP(ratelimit.OpResults),
		r.pollHandler.GetPollResults,
	)

	// Authenticated writes, budgeted per account.
	api.POST("/polls",
		r.authMW.RequireAuth(),
		r.authMW.RequireAdmin(),
		r.rateLimitMW.ByIdentity(ratelimit.OpCreate),
		r.pollHandler.CreatePoll,
	)
	api.POST("/polls/:id/vote",
		r.authMW.RequireAuth(),
		r.rateLimitMW.ByIdentity(ratelimit.OpVote),
		r.voteHandler.CastVote,
	)
	api.PATCH("/polls/:id/active",
		r.authMW.RequireAuth(),
		r.rateLimitMW.ByIdentity(ratelimit.OpCreate),
		r.pollHandler.SetPollActive,
	)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
