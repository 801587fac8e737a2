package user

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// ErrUserNotFound indicates no account exists for the given identifier.
var ErrUserNotFound = eris.New("user not found")

// Service defines account operations built on top of the repository.
type Service interface {
	CurrentUser(ctx context.Context, subject string) (*User, error)
	EnsureUser(ctx context.Context, subject string) (*User, error)
	Role(ctx context.Context, subject string) (*User, error)
	UpdateProfile(ctx context.Context, subject string, update ProfileUpdate) error
	ValidateNickname(ctx context.Context, nickname string) error
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	Nickname    *string
	Name        *string
	Picture     *string
	PhoneNumber *string
	Birthdate   *string
	Address     *string
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the user service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("user repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

func (s *service) CurrentUser(ctx context.Context, subject string) (*User, error) {
	account, err := s.repo.GetByAuthSubject(ctx, subject)
	if err != nil {
		s.recordError(logrus.Fields{"subject": subject}, err, "fetching current user")
		return nil, eris.Wrap(err, "fetching current user")
	}

	if account == nil {
		return nil, eris.Wrap(ErrUserNotFound, "fetching current user")
	}

	return account, nil
}

// EnsureUser returns the account for the subject, creating a blank one with
// the free role on first sight. The nickname stays empty until the user picks
// one through UpdateProfile.
func (s *service) EnsureUser(ctx context.Context, subject string) (*User, error) {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return nil, eris.New("auth subject is required")
	}

	account, err := s.repo.GetByAuthSubject(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"subject": trimmed}, err, "fetching user for ensure")
		return nil, eris.Wrap(err, "fetching user for ensure")
	}
	if account != nil {
		return account, nil
	}

	account = &User{AuthSubjectID: trimmed, Role: RoleFree}
	if err := s.repo.Create(ctx, account); err != nil {
		s.recordError(logrus.Fields{"subject": trimmed}, err, "creating user on first sight")
		return nil, eris.Wrap(err, "creating user on first sight")
	}

	return account, nil
}

func (s *service) Role(ctx context.Context, subject string) (*User, error) {
	return s.CurrentUser(ctx, subject)
}

func (s *service) UpdateProfile(ctx context.Context, subject string, update ProfileUpdate) error {
	account, err := s.CurrentUser(ctx, subject)
	if err != nil {
		return err
	}

	if update.Nickname != nil {
		nickname := strings.TrimSpace(*update.Nickname)
		if nickname != account.Nickname {
			if err := s.ValidateNickname(ctx, nickname); err != nil {
				return err
			}
			account.Nickname = nickname
		}
	}

	if update.Name != nil {
		account.Name = strings.TrimSpace(*update.Name)
	}
	if update.Picture != nil {
		account.Picture = strings.TrimSpace(*update.Picture)
	}
	if update.PhoneNumber != nil {
		account.PhoneNumber = strings.TrimSpace(*update.PhoneNumber)
	}
	if update.Birthdate != nil {
		account.Birthdate = strings.TrimSpace(*update.Birthdate)
	}
	if update.Address != nil {
		account.Address = strings.TrimSpace(*update.Address)
	}

	if err := s.repo.Update(ctx, account); err != nil {
		s.recordError(logrus.Fields{"user_id": account.ID}, err, "updating user profile")
		return eris.Wrap(err, "updating user profile")
	}

	return nil
}

func (s *service) ValidateNickname(ctx context.Context, nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return eris.New("nickname is required")
	}

	if !NicknameAllowed(trimmed) {
		return eris.Wrapf(ErrNicknameNotAllowed, "validating nickname: %s", trimmed)
	}

	exists, err := s.repo.NicknameExists(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"nickname": trimmed}, err, "checking nickname availability")
		return eris.Wrap(err, "checking nickname availability")
	}

	if exists {
		return eris.Wrapf(ErrNicknameTaken, "validating nickname: %s", trimmed)
	}

	return nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
