package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_issues/internal/apperr"
	"transit_issues/internal/models"
	"transit_issues/internal/repo"
)

const msgNoStopParam = "No stop with this stop_id exists"

type StopController struct {
	repo *repo.Repository
}

func NewStopController(r *repo.Repository) *StopController {
	return &StopController{repo: r}
}

// CreateStop handles POST /stops. Anyone may create a stop.
func (sc *StopController) CreateStop(c *gin.Context) {
	var payload models.StopPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("CreateStop: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := sc.repo.CreateStop(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStopResponse(c, rec))
}

// ListStops handles GET /stops with optional ?cursor=.
func (sc *StopController) ListStops(c *gin.Context) {
	page, err := sc.repo.ListStops(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]stopResponse, len(page.Stops))
	for i := range page.Stops {
		results[i] = toStopResponse(c, &page.Stops[i])
	}
	resp := listResponse{Results: results, TotalItems: &page.Total}
	if page.NextCursor != "" {
		resp.Next = nextLink(c, page.NextCursor)
	}
	c.JSON(http.StatusOK, resp)
}

// GetStop handles GET /stops/:stop_id.
func (sc *StopController) GetStop(c *gin.Context) {
	id, ok := parseID(c, "stop_id", msgNoStopParam)
	if !ok {
		return
	}
	rec, err := sc.repo.GetStop(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStopResponse(c, rec))
}

// ReplaceStop handles PUT /stops/:stop_id: a full overwrite.
func (sc *StopController) ReplaceStop(c *gin.Context) {
	id, ok := parseID(c, "stop_id", msgNoStopParam)
	if !ok {
		return
	}
	var payload models.StopPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("ReplaceStop: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := sc.repo.ReplaceStop(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStopResponse(c, rec))
}

// UpdateStop handles PATCH /stops/:stop_id: a key-presence merge.
func (sc *StopController) UpdateStop(c *gin.Context) {
	id, ok := parseID(c, "stop_id", msgNoStopParam)
	if !ok {
		return
	}
	var payload models.StopPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("UpdateStop: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := sc.repo.UpdateStop(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStopResponse(c, rec))
}

// DeleteStop handles DELETE /stops/:stop_id, detaching referencing issues
// before the stop itself goes.
func (sc *StopController) DeleteStop(c *gin.Context) {
	id, ok := parseID(c, "stop_id", msgNoStopParam)
	if !ok {
		return
	}
	if err := sc.repo.DeleteStop(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListStopIssues handles GET /stops/:stop_id/issues.
func (sc *StopController) ListStopIssues(c *gin.Context) {
	id, ok := parseID(c, "stop_id", msgNoStopParam)
	if !ok {
		return
	}
	records, err := sc.repo.ListIssuesForStop(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]issueResponse, len(records))
	for i := range records {
		results[i] = toIssueResponse(c, &records[i])
	}
	c.JSON(http.StatusOK, results)
}

// AttachIssue handles PUT /stops/:stop_id/issues/:issue_id.
func (sc *StopController) AttachIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	stopID, ok := parseID(c, "stop_id", "The specified stop and/or issue do not exist")
	if !ok {
		return
	}
	issueID, ok := parseID(c, "issue_id", "The specified stop and/or issue do not exist")
	if !ok {
		return
	}

	if err := sc.repo.AttachStopToIssue(c.Request.Context(), stopID, issueID, sub); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DetachIssue handles DELETE /stops/:stop_id/issues/:issue_id.
func (sc *StopController) DetachIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	stopID, ok := parseID(c, "stop_id", "No stop with this stop_id is assigned to an issue with this issue_id")
	if !ok {
		return
	}
	issueID, ok := parseID(c, "issue_id", "No stop with this stop_id is assigned to an issue with this issue_id")
	if !ok {
		return
	}

	if err := sc.repo.DetachStopFromIssue(c.Request.Context(), stopID, issueID, sub); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
