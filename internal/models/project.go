package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectType string

const (
	ProjectTypeBackEnd  ProjectType = "Back-End"
	ProjectTypeFrontEnd ProjectType = "Front-End"
	ProjectTypeIOS      ProjectType = "iOS"
	ProjectTypeAndroid  ProjectType = "Android"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(128);not null" json:"title"`
	Description string         `gorm:"type:varchar(1024)" json:"description"`
	Type        ProjectType    `gorm:"type:varchar(20);not null" json:"type"`
	AuthorID    uint64         `gorm:"not null" json:"author_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author       User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Contributors []Contributor `gorm:"foreignKey:ProjectID" json:"contributors,omitempty"`
	Issues       []Issue       `gorm:"foreignKey:ProjectID" json:"issues,omitempty"`
}
