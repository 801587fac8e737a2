package user

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	GetByAuthSubject(ctx context.Context, subject string) (*User, error)
	GetByNickname(ctx context.Context, nickname string) (*User, error)
	NicknameExists(ctx context.Context, nickname string) (bool, error)
	Create(ctx context.Context, account *User) error
	Update(ctx context.Context, account *User) error
}

// GormRepository persists users using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// GetByAuthSubject returns the user for the external subject id, or nil when
// no account exists.
func (r *GormRepository) GetByAuthSubject(ctx context.Context, subject string) (*User, error) {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return nil, eris.New("auth subject is required")
	}

	var account User
	err := r.db.WithContext(ctx).First(&account, "auth_subject_id = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"subject": trimmed}, err, "fetching user by auth subject")
		return nil, eris.Wrap(err, "fetching user by auth subject")
	}

	return &account, nil
}

// GetByNickname returns the user holding the nickname, or nil when not found.
func (r *GormRepository) GetByNickname(ctx context.Context, nickname string) (*User, error) {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return nil, eris.New("nickname is required")
	}

	var account User
	err := r.db.WithContext(ctx).First(&account, "nickname = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"nickname": trimmed}, err, "fetching user by nickname")
		return nil, eris.Wrapf(err, "fetching user by nickname: %s", trimmed)
	}

	return &account, nil
}

// NicknameExists reports whether any account already holds the nickname.
func (r *GormRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return false, eris.New("nickname is required")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("nickname = ?", trimmed).Count(&count).Error; err != nil {
		r.logError(logrus.Fields{"nickname": trimmed}, err, "counting nickname matches")
		return false, eris.Wrap(err, "counting nickname matches")
	}

	return count > 0, nil
}

// Create stores a new user account.
func (r *GormRepository) Create(ctx context.Context, account *User) error {
	if account == nil {
		return eris.New("user is nil")
	}

	if strings.TrimSpace(account.AuthSubjectID) == "" {
		return eris.New("auth subject is required")
	}

	if account.Role == "" {
		account.Role = RoleFree
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		r.logError(logrus.Fields{"subject": account.AuthSubjectID}, err, "creating user")
		return eris.Wrap(err, "creating user")
	}

	return nil
}

// Update saves the modified user account.
func (r *GormRepository) Update(ctx context.Context, account *User) error {
	if account == nil {
		return eris.New("user is nil")
	}

	if account.ID == 0 {
		return eris.New("user id is required")
	}

	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		r.logError(logrus.Fields{"user_id": account.ID}, err, "updating user")
		return eris.Wrap(err, "updating user")
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
