package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/dto"
	apierrors "github.com/softdesk/softdesk-api/internal/errors"
	"github.com/softdesk/softdesk-api/internal/middleware"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/services"
	"github.com/softdesk/softdesk-api/internal/utils"
)

// IssueHandler coordinates issue HTTP handlers.
type IssueHandler struct {
	issueService *services.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// ListIssues returns a project's issues, with optional filters.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListIssuesInput{
		ProjectID: projectID,
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.IssueStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("tag"); raw != "" {
		tag := models.IssueTag(raw)
		input.Tag = &tag
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.IssuePriority(raw)
		input.Priority = &priority
	}
	if raw := c.Query("author_id"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid author_id")
			return
		}
		input.AuthorID = &authorID
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &assigneeID
	}

	issues, total, err := h.issueService.ListIssues(input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	issueDTOs := make([]dto.IssueDTO, len(issues))
	for i, issue := range issues {
		issueDTOs[i] = dto.ToIssueDTO(issue)
	}

	c.JSON(http.StatusOK, dto.IssueListResponse{
		Issues: issueDTOs,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetIssue returns one issue.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}

	issue, err := h.issueService.GetIssue(projectID, issueID)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// CreateIssue creates an issue authored by the current user.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateIssueRequest struct {
		Title       string               `json:"title" binding:"required,max=128"`
		Description string               `json:"description" binding:"max=1024"`
		Tag         models.IssueTag      `json:"tag" binding:"required"`
		Priority    models.IssuePriority `json:"priority" binding:"required"`
		Status      models.IssueStatus   `json:"status"`
		AssigneeID  *uint64              `json:"assignee_id"`
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.CreateIssue(services.CreateIssueInput{
		ProjectID:   projectID,
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueDTO(*issue))
}

// UpdateIssue applies a partial update to an issue.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}

	type UpdateIssueRequest struct {
		Title         *string               `json:"title" binding:"omitempty,max=128"`
		Description   *string               `json:"description" binding:"omitempty,max=1024"`
		Tag           *models.IssueTag      `json:"tag"`
		Priority      *models.IssuePriority `json:"priority"`
		Status        *models.IssueStatus   `json:"status"`
		AssigneeID    *uint64               `json:"assignee_id"`
		ClearAssignee bool                  `json:"clear_assignee"`
	}

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssue(projectID, issueID, services.UpdateIssueInput{
		Title:         req.Title,
		Description:   req.Description,
		Tag:           req.Tag,
		Priority:      req.Priority,
		Status:        req.Status,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
	})
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// DeleteIssue removes an issue and its comments.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}

	if err := h.issueService.DeleteIssue(projectID, issueID); err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue deleted successfully",
	})
}

func respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrIssueTitleEmpty),
		errors.Is(err, services.ErrInvalidIssueTag),
		errors.Is(err, services.ErrInvalidIssuePrio),
		errors.Is(err, services.ErrInvalidIssueStatus),
		errors.Is(err, services.ErrAssigneeNotInProject):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
