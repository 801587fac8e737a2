package http

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/user"
)

type userView struct {
	ID          uint   `json:"id"`
	Nickname    string `json:"nickname,omitempty"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Address     string `json:"address,omitempty"`
}

type userOutput struct {
	Body struct {
		User userView `json:"user"`
	}
}

type userUpdateInput struct {
	Body struct {
		Nickname    *string `json:"nickname,omitempty"`
		Name        *string `json:"name,omitempty"`
		Picture     *string `json:"picture,omitempty"`
		PhoneNumber *string `json:"phoneNumber,omitempty"`
		Birthdate   *string `json:"birthdate,omitempty"`
		Address     *string `json:"address,omitempty"`
	}
}

type userRoleOutput struct {
	Body struct {
		Role string `json:"role"`
	}
}

type nicknameInput struct {
	Body struct {
		Nickname string `json:"nickname,omitempty"`
	}
}

type nicknameOutput struct {
	Body struct {
		Available bool `json:"available"`
	}
}

func (s *Server) registerUserRoutes() {
	huma.Get(s.api, "/api/user", s.userHandler, func(op *huma.Operation) {
		op.Summary = "Fetch the authenticated user"
	})
	huma.Post(s.api, "/api/user/update", s.userUpdateHandler, func(op *huma.Operation) {
		op.Summary = "Update the authenticated user's profile"
	})
	huma.Get(s.api, "/api/user/role", s.userRoleHandler, func(op *huma.Operation) {
		op.Summary = "Fetch the authenticated user's role"
	})
	huma.Post(s.api, "/api/nickname/validate", s.nicknameValidateHandler, func(op *huma.Operation) {
		op.Summary = "Check nickname availability"
	})
}

func (s *Server) userHandler(ctx context.Context, _ *struct{}) (*userOutput, error) {
	subject := SubjectFromContext(ctx)
	if subject == "" {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	account, err := s.users.EnsureUser(ctx, subject)
	if err != nil {
		s.recordError(ctx, err, "fetching account", nil)
		return nil, huma.Error500InternalServerError("Error fetching user")
	}

	resp := &userOutput{}
	resp.Body.User = newUserView(account)
	return resp, nil
}

func (s *Server) userUpdateHandler(ctx context.Context, input *userUpdateInput) (*userOutput, error) {
	subject := SubjectFromContext(ctx)
	if subject == "" {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	update := user.ProfileUpdate{
		Nickname:    input.Body.Nickname,
		Name:        input.Body.Name,
		Picture:     input.Body.Picture,
		PhoneNumber: input.Body.PhoneNumber,
		Birthdate:   input.Body.Birthdate,
		Address:     input.Body.Address,
	}

	if err := s.users.UpdateProfile(ctx, subject, update); err != nil {
		switch {
		case eris.Is(err, user.ErrNicknameTaken):
			return nil, huma.Error409Conflict("Nickname already exists")
		case eris.Is(err, user.ErrNicknameNotAllowed):
			return nil, huma.Error400BadRequest("Nickname is not allowed")
		case eris.Is(err, user.ErrUserNotFound):
			return nil, huma.Error404NotFound("User not found")
		default:
			s.recordError(ctx, err, "updating profile", nil)
			return nil, huma.Error500InternalServerError("Error updating user")
		}
	}

	account, err := s.users.CurrentUser(ctx, subject)
	if err != nil {
		s.recordError(ctx, err, "reloading account after update", nil)
		return nil, huma.Error500InternalServerError("Error updating user")
	}

	resp := &userOutput{}
	resp.Body.User = newUserView(account)
	return resp, nil
}

func (s *Server) userRoleHandler(ctx context.Context, _ *struct{}) (*userRoleOutput, error) {
	subject := SubjectFromContext(ctx)
	if subject == "" {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	account, err := s.users.Role(ctx, subject)
	if err != nil {
		if eris.Is(err, user.ErrUserNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		s.recordError(ctx, err, "fetching role", nil)
		return nil, huma.Error500InternalServerError("Error fetching role")
	}

	resp := &userRoleOutput{}
	resp.Body.Role = account.Role
	return resp, nil
}

func (s *Server) nicknameValidateHandler(ctx context.Context, input *nicknameInput) (*nicknameOutput, error) {
	nickname := strings.TrimSpace(input.Body.Nickname)
	if nickname == "" {
		return nil, huma.Error400BadRequest("Nickname is required")
	}

	if err := s.users.ValidateNickname(ctx, nickname); err != nil {
		switch {
		case eris.Is(err, user.ErrNicknameTaken):
			return nil, huma.Error409Conflict("Nickname already exists")
		case eris.Is(err, user.ErrNicknameNotAllowed):
			return nil, huma.Error400BadRequest("Nickname is not allowed")
		default:
			s.recordError(ctx, err, "validating nickname", logrus.Fields{"nickname": nickname})
			return nil, huma.Error500InternalServerError("Error validating nickname")
		}
	}

	resp := &nicknameOutput{}
	resp.Body.Available = true
	return resp, nil
}

func newUserView(account *user.User) userView {
	return userView{
		ID:          account.ID,
		Nickname:    account.Nickname,
		Name:        account.Name,
		Picture:     account.Picture,
		Role:        account.Role,
		PhoneNumber: account.PhoneNumber,
		Birthdate:   account.Birthdate,
		Address:     account.Address,
	}
}
