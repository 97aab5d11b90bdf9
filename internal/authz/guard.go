package authz

import "github.com/softdesk/softdesk-api/internal/models"

// Contributor lifecycle rules, shared by every ContributorStore
// implementation. The store calls these inside the transaction that also
// performs the write, with `existing`/`target` and `managerTaken` read in
// that same transaction.

// CheckInsert validates adding a user to a project. `existing` is the
// contributor row already held by the same (project, user) pair, if any;
// `managerTaken` reports whether the project already has a Manager.
func CheckInsert(existing *models.Contributor, managerTaken bool, role models.ContributorRole) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if role == models.RoleCreator {
		return &ForbiddenError{Reason: ReasonCreatorNotAssignable}
	}
	if existing != nil {
		return &ConflictError{Reason: ReasonAlreadyContributor}
	}
	if role == models.RoleManager && managerTaken {
		return &ConflictError{Reason: ReasonManagerExists}
	}
	return nil
}

// CheckRoleChange validates changing `target`'s role. `managerTaken` must
// be computed excluding the target row itself.
func CheckRoleChange(target *models.Contributor, managerTaken bool, role models.ContributorRole) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if target.Role == models.RoleCreator {
		return &ForbiddenError{Reason: ReasonCreatorImmutable}
	}
	if role == models.RoleCreator {
		return &ForbiddenError{Reason: ReasonCreatorNotAssignable}
	}
	if role == models.RoleManager && managerTaken {
		return &ConflictError{Reason: ReasonManagerExists}
	}
	return nil
}

// CheckDelete validates removing `target` from its project.
func CheckDelete(target *models.Contributor) error {
	if target.Role == models.RoleCreator {
		return &ForbiddenError{Reason: ReasonCreatorImmutable}
	}
	return nil
}
