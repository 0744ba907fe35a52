package handlers

import (
	"net/http"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService *services.VoteService
}

func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// CastVote godoc
// @Summary Cast a vote
// @Description Cast the caller's single vote on a poll
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poll ID"
// @Param request body models.VoteRequest true "Vote data"
// @Success 201 {object} models.VoteResponse "Committed vote"
// @Failure 400 {object} response.ErrorBody "Invalid input"
// @Failure 404 {object} response.ErrorBody "Poll not found"
// @Failure 409 {object} response.ErrorBody "Already voted or poll closed"
// @Router /polls/{id}/vote [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err.Error())
		return
	}
	if req.PollID != pollID {
		response.Validation(c, "poll in body does not match poll in path")
		return
	}

	vote, err := h.voteService.CastVote(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}
