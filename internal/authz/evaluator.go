package authz

import (
	"errors"
	"fmt"

	"github.com/softdesk/softdesk-api/internal/models"
)

// Evaluator decides whether an actor may perform an action on a nested
// resource. Decisions are pure functions of current store state; the
// returned error is reserved for store failures and malformed input.
type Evaluator struct {
	store MembershipStore
}

func NewEvaluator(store MembershipStore) *Evaluator {
	return &Evaluator{store: store}
}

// Authorize resolves the actor's membership in the resource's project and
// walks the decision tree for the resource kind.
//
// Membership is checked before any role or ownership predicate and before
// any target lookup, so a non-member always receives not_a_contributor and
// never learns whether the target exists.
func (e *Evaluator) Authorize(actorID uint64, action Action, res Resource) (Decision, error) {
	// Creating or listing projects needs no pre-existing membership.
	if res.Kind == KindProject && (action == ActionCreate || action == ActionList) {
		return Allow(), nil
	}

	member, err := e.store.FindContributor(res.ProjectID, actorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Deny(ReasonNotAContributor), nil
		}
		return Decision{}, fmt.Errorf("failed to resolve membership: %w", err)
	}

	switch res.Kind {
	case KindProject:
		return e.authorizeProject(member, action)
	case KindContributor:
		return e.authorizeContributor(member, action, res)
	case KindIssue:
		return e.authorizeOwned(actorID, action, func() (uint64, error) {
			return e.store.FindIssueOwner(res.ProjectID, res.TargetID)
		})
	case KindComment:
		return e.authorizeOwned(actorID, action, func() (uint64, error) {
			return e.store.FindCommentOwner(res.ProjectID, res.IssueID, res.TargetID)
		})
	default:
		return Decision{}, fmt.Errorf("unknown resource kind %q", res.Kind)
	}
}

func (e *Evaluator) authorizeProject(member *models.Contributor, action Action) (Decision, error) {
	switch action {
	case ActionRetrieve:
		return Allow(), nil
	case ActionUpdate, ActionDelete:
		if !IsAdminRole(member.Role) {
			return Deny(ReasonRequiresAdminRole), nil
		}
		return Allow(), nil
	default:
		return Decision{}, fmt.Errorf("unsupported project action %q", action)
	}
}

func (e *Evaluator) authorizeContributor(member *models.Contributor, action Action, res Resource) (Decision, error) {
	switch action {
	case ActionList, ActionRetrieve:
		return Allow(), nil
	case ActionCreate:
		if !IsAdminRole(member.Role) {
			return Deny(ReasonRequiresAdminRole), nil
		}
		return Allow(), nil
	case ActionUpdate, ActionDelete:
		if !IsAdminRole(member.Role) {
			return Deny(ReasonRequiresAdminRole), nil
		}
		target, err := e.store.FindContributor(res.ProjectID, res.TargetID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Deny(ReasonNotFound), nil
			}
			return Decision{}, fmt.Errorf("failed to resolve target contributor: %w", err)
		}
		// The Creator row is immutable for everyone, Creator included.
		if target.Role == models.RoleCreator {
			return Deny(ReasonCreatorImmutable), nil
		}
		return Allow(), nil
	default:
		return Decision{}, fmt.Errorf("unsupported contributor action %q", action)
	}
}

// authorizeOwned covers issues and comments: safe verbs and create are open
// to any contributor, mutation is reserved to the resource's author. Admin
// roles do not override authorship. findOwner is scoped to the resource
// path, so an id belonging to another project resolves as a miss.
func (e *Evaluator) authorizeOwned(actorID uint64, action Action, findOwner func() (uint64, error)) (Decision, error) {
	switch action {
	case ActionList, ActionRetrieve, ActionCreate:
		return Allow(), nil
	case ActionUpdate, ActionDelete:
		ownerID, err := findOwner()
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Deny(ReasonNotFound), nil
			}
			return Decision{}, fmt.Errorf("failed to resolve resource owner: %w", err)
		}
		if ownerID != actorID {
			return Deny(ReasonNotAuthor), nil
		}
		return Allow(), nil
	default:
		return Decision{}, fmt.Errorf("unsupported action %q", action)
	}
}
