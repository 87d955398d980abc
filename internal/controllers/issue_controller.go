package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_issues/internal/apperr"
	"transit_issues/internal/models"
	"transit_issues/internal/repo"
)

const msgNoIssueParam = "No issue with this issue_id exists"

type IssueController struct {
	repo *repo.Repository
}

func NewIssueController(r *repo.Repository) *IssueController {
	return &IssueController{repo: r}
}

// CreateIssue handles POST /issues. The owner is the verified subject, not
// anything in the payload.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	var payload models.IssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("CreateIssue: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := ic.repo.CreateIssue(c.Request.Context(), payload, sub)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIssueResponse(c, rec))
}

// ListIssues handles GET /issues with optional ?cursor=.
func (ic *IssueController) ListIssues(c *gin.Context) {
	page, err := ic.repo.ListIssues(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}
	ic.writePage(c, page)
}

// ListUserIssues handles GET /users/:user_id/issues. Self-only: any other
// authenticated subject gets 403.
func (ic *IssueController) ListUserIssues(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	if c.Param("user_id") != sub {
		writeError(c, apperr.Ownership("You may only view your own issues"))
		return
	}

	page, err := ic.repo.ListUserIssues(c.Request.Context(), sub, c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}
	ic.writePage(c, page)
}

func (ic *IssueController) writePage(c *gin.Context, page *repo.IssuePage) {
	results := make([]issueResponse, len(page.Issues))
	for i := range page.Issues {
		results[i] = toIssueResponse(c, &page.Issues[i])
	}
	resp := listResponse{Results: results, TotalItems: page.Total}
	if page.NextCursor != "" {
		resp.Next = nextLink(c, page.NextCursor)
	}
	c.JSON(http.StatusOK, resp)
}

// GetIssue handles GET /issues/:issue_id. Reads are public.
func (ic *IssueController) GetIssue(c *gin.Context) {
	id, ok := parseID(c, "issue_id", msgNoIssueParam)
	if !ok {
		return
	}
	rec, err := ic.repo.GetIssue(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIssueResponse(c, rec))
}

// ReplaceIssue handles PUT /issues/:issue_id. Owner-only.
func (ic *IssueController) ReplaceIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "issue_id", msgNoIssueParam)
	if !ok {
		return
	}
	var payload models.IssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("ReplaceIssue: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := ic.repo.ReplaceIssue(c.Request.Context(), id, payload, sub)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toIssueResponse(c, rec))
}

// UpdateIssue handles PATCH /issues/:issue_id. Owner-only.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "issue_id", msgNoIssueParam)
	if !ok {
		return
	}
	var payload models.IssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Warn("UpdateIssue: invalid input payload")
		writeError(c, apperr.Validation(err.Error()))
		return
	}

	rec, err := ic.repo.UpdateIssue(c.Request.Context(), id, payload, sub)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIssueResponse(c, rec))
}

// DeleteIssue handles DELETE /issues/:issue_id. Owner-only.
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	sub, ok := requireSubject(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "issue_id", msgNoIssueParam)
	if !ok {
		return
	}
	if err := ic.repo.DeleteIssue(c.Request.Context(), id, sub); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
