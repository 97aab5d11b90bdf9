package models

import (
	"time"

	"gorm.io/gorm"
)

type IssueTag string

const (
	IssueTagBug     IssueTag = "Bug"
	IssueTagFeature IssueTag = "Feature"
	IssueTagTask    IssueTag = "Task"
)

type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "Low"
	IssuePriorityMedium IssuePriority = "Medium"
	IssuePriorityHigh   IssuePriority = "High"
)

type IssueStatus string

const (
	IssueStatusTodo    IssueStatus = "Todo"
	IssueStatusHandled IssueStatus = "Handled"
	IssueStatusClosed  IssueStatus = "Closed"
)

type Issue struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(128);not null" json:"title"`
	Description string         `gorm:"type:varchar(1024)" json:"description"`
	Tag         IssueTag       `gorm:"type:varchar(20);not null" json:"tag"`
	Priority    IssuePriority  `gorm:"type:varchar(20);not null" json:"priority"`
	Status      IssueStatus    `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	ProjectID   uint64         `gorm:"not null" json:"project_id"`
	AuthorID    uint64         `gorm:"not null" json:"author_id"`
	AssigneeID  *uint64        `json:"assignee_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments []Comment `gorm:"foreignKey:IssueID" json:"comments,omitempty"`
}
