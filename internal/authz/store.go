package authz

import (
	"errors"

	"github.com/softdesk/softdesk-api/internal/models"
)

// ErrNotFound is returned by store lookups that resolve nothing.
var ErrNotFound = errors.New("not found")

// ConflictError reports a contributor write rejected by a uniqueness
// invariant (one role per user per project, one Manager per project).
type ConflictError struct {
	Reason Reason
}

func (e *ConflictError) Error() string {
	return "contributor conflict: " + string(e.Reason)
}

// ForbiddenError reports a contributor write the lifecycle rules never
// permit, regardless of who asks.
type ForbiddenError struct {
	Reason Reason
}

func (e *ForbiddenError) Error() string {
	return "contributor write forbidden: " + string(e.Reason)
}

// MembershipStore is the read contract the evaluator needs from the
// persistence layer. Lookup misses are reported as ErrNotFound.
type MembershipStore interface {
	// FindContributor resolves the contributor row for a user in a project.
	FindContributor(projectID, userID uint64) (*models.Contributor, error)

	// ListContributors returns all contributor rows of a project.
	ListContributors(projectID uint64) ([]models.Contributor, error)

	// FindIssueOwner returns the author user id of an issue, scoped to the
	// project it belongs to. An issue id living in another project is a
	// lookup miss, never a hit.
	FindIssueOwner(projectID, issueID uint64) (uint64, error)

	// FindCommentOwner returns the author user id of a comment, scoped to
	// its full project/issue path.
	FindCommentOwner(projectID, issueID, commentID uint64) (uint64, error)
}

// ContributorStore adds the guarded contributor writes. Implementations
// must run each write and its invariant checks as one atomic unit and
// return *ConflictError / *ForbiddenError on violations.
type ContributorStore interface {
	MembershipStore

	// InsertContributor adds a user to a project with a role. The Creator
	// role is never insertable through this path.
	InsertContributor(projectID, userID uint64, role models.ContributorRole) (*models.Contributor, error)

	// UpdateContributorRole changes an existing contributor's role.
	UpdateContributorRole(projectID, userID uint64, role models.ContributorRole) (*models.Contributor, error)

	// DeleteContributor removes a contributor. The Creator row is not
	// removable while its project exists.
	DeleteContributor(projectID, userID uint64) error
}
