package authz

// ResourceKind identifies a level of the project / contributor / issue /
// comment hierarchy.
type ResourceKind string

const (
	KindProject     ResourceKind = "project"
	KindContributor ResourceKind = "contributor"
	KindIssue       ResourceKind = "issue"
	KindComment     ResourceKind = "comment"
)

// Resource is a node in the nested resource hierarchy an action targets.
// TargetID is the identifier of the specific entity (project id, target
// user id, issue id or comment id depending on Kind) and is zero for list
// and create.
type Resource struct {
	Kind      ResourceKind
	ProjectID uint64
	IssueID   uint64
	TargetID  uint64
}

// Projects addresses the project collection (list, create).
func Projects() Resource {
	return Resource{Kind: KindProject}
}

// Project addresses one project.
func Project(projectID uint64) Resource {
	return Resource{Kind: KindProject, ProjectID: projectID, TargetID: projectID}
}

// Contributors addresses a project's contributor collection.
func Contributors(projectID uint64) Resource {
	return Resource{Kind: KindContributor, ProjectID: projectID}
}

// Contributor addresses one contributor by the target user's id.
func Contributor(projectID, userID uint64) Resource {
	return Resource{Kind: KindContributor, ProjectID: projectID, TargetID: userID}
}

// Issues addresses a project's issue collection.
func Issues(projectID uint64) Resource {
	return Resource{Kind: KindIssue, ProjectID: projectID}
}

// Issue addresses one issue.
func Issue(projectID, issueID uint64) Resource {
	return Resource{Kind: KindIssue, ProjectID: projectID, IssueID: issueID, TargetID: issueID}
}

// Comments addresses an issue's comment collection.
func Comments(projectID, issueID uint64) Resource {
	return Resource{Kind: KindComment, ProjectID: projectID, IssueID: issueID}
}

// Comment addresses one comment.
func Comment(projectID, issueID, commentID uint64) Resource {
	return Resource{Kind: KindComment, ProjectID: projectID, IssueID: issueID, TargetID: commentID}
}
