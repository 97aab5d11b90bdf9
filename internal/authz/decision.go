package authz

// Action is the verb an actor attempts on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Reason is the machine-readable cause of a denial or rejected write.
type Reason string

const (
	ReasonNotAContributor      Reason = "not_a_contributor"
	ReasonRequiresAdminRole    Reason = "requires_admin_role"
	ReasonCreatorImmutable     Reason = "creator_immutable"
	ReasonNotAuthor            Reason = "not_author"
	ReasonNotFound             Reason = "not_found"
	ReasonManagerExists        Reason = "manager_exists"
	ReasonAlreadyContributor   Reason = "already_contributor"
	ReasonCreatorNotAssignable Reason = "creator_not_assignable"
)

// Decision is the outcome of an authorization check. Denials are values,
// not errors, so callers can map reasons to response statuses.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}
