package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/dto"
	apierrors "github.com/softdesk/softdesk-api/internal/errors"
	"github.com/softdesk/softdesk-api/internal/services"
)

// ContributorHandler coordinates contributor HTTP handlers.
type ContributorHandler struct {
	contributorService *services.ContributorService
}

// NewContributorHandler creates a new ContributorHandler.
func NewContributorHandler(contributorService *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
	}
}

// ListContributors returns all contributors of a project.
func (h *ContributorHandler) ListContributors(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	contributors, err := h.contributorService.ListContributors(projectID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	contributorDTOs := make([]dto.ContributorDTO, len(contributors))
	for i, contributor := range contributors {
		contributorDTOs[i] = dto.ToContributorDTO(contributor)
	}

	c.JSON(http.StatusOK, gin.H{
		"contributors": contributorDTOs,
	})
}

// GetContributor returns one contributor by the target user's id.
func (h *ContributorHandler) GetContributor(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	contributor, err := h.contributorService.GetContributor(projectID, userID)
	if err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContributorDTO(*contributor))
}

// AddContributor adds a user to the project.
func (h *ContributorHandler) AddContributor(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	type AddContributorRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req AddContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contributor, err := h.contributorService.AddContributor(services.AddContributorInput{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
	})
	if err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContributorDTO(*contributor))
}

// ChangeRole changes a contributor's role.
func (h *ContributorHandler) ChangeRole(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contributor, err := h.contributorService.ChangeRole(projectID, userID, req.Role)
	if err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContributorDTO(*contributor))
}

// RemoveContributor removes a user from the project.
func (h *ContributorHandler) RemoveContributor(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	if err := h.contributorService.RemoveContributor(projectID, userID); err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contributor removed successfully",
	})
}

func respondContributorError(c *gin.Context, err error) {
	var conflict *authz.ConflictError
	var forbidden *authz.ForbiddenError
	var invalidRole *authz.InvalidRoleError

	switch {
	case errors.As(err, &conflict):
		apierrors.Conflict(c, "", string(conflict.Reason))
	case errors.As(err, &forbidden):
		apierrors.Forbidden(c, "", string(forbidden.Reason))
	case errors.As(err, &invalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrContributorNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
