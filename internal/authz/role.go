package authz

import (
	"fmt"

	"github.com/softdesk/softdesk-api/internal/models"
)

// Roles returns the closed set of contributor roles, highest rank first.
func Roles() []models.ContributorRole {
	return []models.ContributorRole{
		models.RoleCreator,
		models.RoleManager,
		models.RoleAuthor,
	}
}

// IsAdminRole reports whether a role may manage project metadata and
// contributors. Creator and Manager are the admin roles.
func IsAdminRole(role models.ContributorRole) bool {
	return role == models.RoleCreator || role == models.RoleManager
}

// InvalidRoleError indicates a role value outside the closed role set. It
// signals a data-integrity or programming fault, never a normal
// authorization outcome.
type InvalidRoleError struct {
	Value string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid contributor role %q", e.Value)
}

// ParseRole validates a raw role string against the role set.
func ParseRole(value string) (models.ContributorRole, error) {
	for _, role := range Roles() {
		if value == string(role) {
			return role, nil
		}
	}
	return "", &InvalidRoleError{Value: value}
}
