package page

import (
	"gorm.io/gorm"

	"sitesensei/app/internal/user"
)

// Page represents a generated single-page artifact persisted in the database.
// Identity is (owner, name) for authenticated pages and (anonymous, name) for
// anonymous ones.
type Page struct {
	gorm.Model
	Name           string `gorm:"size:255;uniqueIndex:idx_pages_owner_name;not null"`
	UserID         *uint  `gorm:"uniqueIndex:idx_pages_owner_name"`
	User           *user.User
	IsAnonymous    bool   `gorm:"not null;default:false"`
	IsFavorited    bool   `gorm:"not null;default:false"`
	HTML           string `gorm:"type:text;not null"`
	JavaScript     string `gorm:"type:text"`
	ModelUsed      string `gorm:"size:255"`
	OriginalPrompt string `gorm:"type:text"`
	EnhancedPrompt string `gorm:"type:text"`
}

// TableName defines the table name for the Page model.
func (Page) TableName() string {
	return "pages"
}

// PageRevision is an immutable snapshot of a page's prior content, created
// immediately before an update overwrites it. The prompt and model columns
// are denormalized copies so revisions stay readable after the page changes.
type PageRevision struct {
	gorm.Model
	PageID         uint   `gorm:"index:idx_page_revisions_page;not null"`
	HTML           string `gorm:"type:text;not null"`
	JavaScript     string `gorm:"type:text"`
	ModelUsed      string `gorm:"size:255"`
	OriginalPrompt string `gorm:"type:text"`
	EnhancedPrompt string `gorm:"type:text"`
}

// TableName defines the table name for the PageRevision model.
func (PageRevision) TableName() string {
	return "page_revisions"
}
