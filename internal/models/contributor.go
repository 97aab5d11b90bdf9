package models

import "time"

type ContributorRole string

const (
	RoleCreator ContributorRole = "Creator"
	RoleManager ContributorRole = "Manager"
	RoleAuthor  ContributorRole = "Author"
)

// Contributor links a user to a project with a role. A user holds at most
// one role per project, enforced by the composite unique index.
type Contributor struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	ProjectID uint64          `gorm:"not null;uniqueIndex:uk_contributors_project_user" json:"project_id"`
	UserID    uint64          `gorm:"not null;uniqueIndex:uk_contributors_project_user" json:"user_id"`
	Role      ContributorRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time       `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
