package handlers

import (
	"net/http"
	"strconv"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService   *services.PollService
	resultService *services.ResultService
}

func NewPollHandler(pollService *services.PollService, resultService *services.ResultService) *PollHandler {
	return &PollHandler{pollService: pollService, resultService: resultService}
}

// ListPolls godoc
// @Summary List active polls
// @Description Get all active polls with their options and live vote counts
// @Tags polls
// @Produce json
// @Success 200 {array} models.PollResponse "List of active polls"
// @Failure 429 {object} map[string]interface{} "Rate limit exceeded"
// @Router /polls [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	polls, err := h.pollService.ListActivePolls(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

// CreatePoll godoc
// @Summary Create a new poll
// @Description Create a poll with at least two unique options
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePollRequest true "Poll creation data"
// @Success 201 {object} models.PollResponse "Created poll"
// @Failure 400 {object} response.ErrorBody "Invalid input"
// @Failure 403 {object} response.ErrorBody "Admin identity required"
// @Router /polls [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req models.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err.Error())
		return
	}

	poll, err := h.pollService.CreatePoll(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

// GetPoll godoc
// @Summary Get poll detail
// @Description Get a poll with its options and live vote counts
// @Tags polls
// @Produce json
// @Param id path int true "Poll ID"
// @Success 200 {object} models.PollResponse "Poll detail"
// @Failure 404 {object} response.ErrorBody "Poll not found"
// @Router /polls/{id} [get]
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	poll, err := h.pollService.GetPoll(c.Request.Context(), pollID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// GetPollResults godoc
// @Summary Get poll results
// @Description Get the current tally for a poll
// @Tags polls
// @Produce json
// @Param id path int true "Poll ID"
// @Success 200 {object} models.PollResults "Poll results"
// @Failure 404 {object} response.ErrorBody "Poll not found"
// @Router /polls/{id}/results [get]
func (h *PollHandler) GetPollResults(c *gin.Context) {
	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	results, err := h.resultService.PollResults(c.Request.Context(), pollID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// SetPollActive godoc
// @Summary Toggle a poll's active flag
// @Description Activate or deactivate a poll; owner or admin only
// @Tags polls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poll ID"
// @Param request body models.SetPollActiveRequest true "Active flag"
// @Success 200 {object} map[string]string "Poll updated"
// @Failure 403 {object} response.ErrorBody "Not the owner"
// @Failure 404 {object} response.ErrorBody "Poll not found"
// @Router /polls/{id}/active [patch]
func (h *PollHandler) SetPollActive(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	isAdmin := c.GetBool("is_admin")

	pollID, ok := pollIDParam(c)
	if !ok {
		return
	}

	var req models.SetPollActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err.Error())
		return
	}

	if err := h.pollService.SetPollActive(c.Request.Context(), pollID, userID, isAdmin, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poll updated"})
}

// pollIDParam parses the :id path segment, writing a 400 on garbage input.
func pollIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Validation(c, "poll id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
