package middleware

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/authz"
	apierrors "github.com/softdesk/softdesk-api/internal/errors"
)

// Authorize gates a route through the authorization evaluator. It builds
// the resource from the URL parameters, asks for a decision and maps deny
// reasons to response statuses: not_found becomes 404, every other reason
// becomes 403.
func Authorize(evaluator *authz.Evaluator, action authz.Action, kind authz.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		resource, ok := resourceFromPath(c, action, kind)
		if !ok {
			c.Abort()
			return
		}

		decision, err := evaluator.Authorize(actorID, action, resource)
		if err != nil {
			log.Printf("authorization check failed: %v", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if !decision.Allowed {
			if decision.Reason == authz.ReasonNotFound {
				apierrors.NotFound(c, "")
			} else {
				apierrors.Forbidden(c, "", string(decision.Reason))
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// resourceFromPath parses the nested URL identifiers for the resource
// kind. On a malformed identifier it writes a 400 response and returns
// ok=false.
func resourceFromPath(c *gin.Context, action authz.Action, kind authz.ResourceKind) (authz.Resource, bool) {
	collection := action == authz.ActionList || action == authz.ActionCreate

	switch kind {
	case authz.KindProject:
		if collection {
			return authz.Projects(), true
		}
		projectID, ok := pathID(c, "project_id")
		if !ok {
			return authz.Resource{}, false
		}
		return authz.Project(projectID), true

	case authz.KindContributor:
		projectID, ok := pathID(c, "project_id")
		if !ok {
			return authz.Resource{}, false
		}
		if collection {
			return authz.Contributors(projectID), true
		}
		userID, ok := pathID(c, "user_id")
		if !ok {
			return authz.Resource{}, false
		}
		return authz.Contributor(projectID, userID), true

	case authz.KindIssue:
		projectID, ok := pathID(c, "project_id")
		if !ok {
			return authz.Resource{}, false
		}
		if collection {
			return authz.Issues(projectID), true
		}
		issueID, ok := pathID(c, "issue_id")
		if !ok {
			return authz.Resource{}, false
		}
		return authz.Issue(projectID, issueID), true

	case authz.KindComment:
		projectID, ok := pathID(c, "project_id")
		if !ok {
			return authz.Resource{}, false
		}
		issueID, ok := pathID(c, "issue_id")
		if !ok {
			return authz.Resource{}, false
		}
		if collection {
			return authz.Comments(projectID, issueID), true
		}
		commentID, ok := pathID(c, "comment_id")
		if !ok {
			return authz.Resource{}, false
		}
		return authz.Comment(projectID, issueID, commentID), true
	}

	apierrors.BadRequest(c, "Unknown resource")
	return authz.Resource{}, false
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
