package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Description string         `gorm:"type:varchar(1024);not null" json:"description"`
	AuthorID    uint64         `gorm:"not null" json:"author_id"`
	IssueID     uint64         `gorm:"not null" json:"issue_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Issue  Issue `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
}
