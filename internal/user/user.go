package user

import (
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleFree  = "free"
	RolePaid  = "paid"
	RoleAdmin = "admin"
)

// User represents an account linked to an externally issued identity.
type User struct {
	gorm.Model
	AuthSubjectID string `gorm:"size:255;uniqueIndex:idx_users_auth_subject;not null"`
	Nickname      string `gorm:"size:64;uniqueIndex:idx_users_nickname"`
	Name          string `gorm:"size:255"`
	Picture       string `gorm:"size:512"`
	Role          string `gorm:"size:16;not null;default:free"`
	PhoneNumber   string `gorm:"size:32"`
	Birthdate     string `gorm:"size:32"`
	Address       string `gorm:"size:512"`
}

// TableName defines the table name for the User model.
func (User) TableName() string {
	return "users"
}

// ErrNicknameNotAllowed indicates the nickname is on the denylist.
var ErrNicknameNotAllowed = eris.New("nickname is not allowed")

// ErrNicknameTaken indicates another account already holds the nickname.
var ErrNicknameTaken = eris.New("nickname already exists")

// Reserved or abuse-prone nicknames. "anon" is load-bearing: the content
// routes use it to address anonymous pages.
var bannedNicknames = map[string]struct{}{
	"admin":      {},
	"anon":       {},
	"anonymous":  {},
	"api":        {},
	"explore":    {},
	"moderator":  {},
	"profile":    {},
	"root":       {},
	"settings":   {},
	"sitesensei": {},
	"support":    {},
	"system":     {},
}

// NicknameAllowed reports whether the nickname passes the denylist.
func NicknameAllowed(nickname string) bool {
	_, banned := bannedNicknames[strings.ToLower(strings.TrimSpace(nickname))]
	return !banned
}
