package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/dto"
	apierrors "github.com/softdesk/softdesk-api/internal/errors"
	"github.com/softdesk/softdesk-api/internal/middleware"
	"github.com/softdesk/softdesk-api/internal/services"
	"github.com/softdesk/softdesk-api/internal/utils"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments lists an issue's comments.
func (h *CommentHandler) ListComments(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	comments, total, err := h.commentService.ListComments(projectID, issueID, params)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	commentDTOs := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		commentDTOs[i] = dto.ToCommentDTO(comment)
	}

	c.JSON(http.StatusOK, dto.CommentListResponse{
		Comments: commentDTOs,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetComment returns one comment.
func (h *CommentHandler) GetComment(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(projectID, issueID, commentID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// CreateComment adds a comment authored by the current user.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommentRequest struct {
		Description string `json:"description" binding:"required,max=1024"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(services.CreateCommentInput{
		ProjectID:   projectID,
		IssueID:     issueID,
		AuthorID:    userID,
		Description: req.Description,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment changes a comment's description.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Description string `json:"description" binding:"required,max=1024"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(projectID, issueID, commentID, req.Description)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	issueID, ok := paramID(c, "issue_id")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(projectID, issueID, commentID); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrIssueNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
