package user

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
)

func TestCurrentUserReturnsExistingAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupUserRepository(t)

	seed := &User{AuthSubjectID: "auth|known", Nickname: "known"}
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	account, err := svc.CurrentUser(ctx, "auth|known")
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if account.Nickname != "known" {
		t.Fatalf("expected nickname 'known', got %q", account.Nickname)
	}
}

func TestCurrentUserReportsMissingAccount(t *testing.T) {
	t.Parallel()

	repo := setupUserRepository(t)

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.CurrentUser(context.Background(), "auth|nobody")
	if !eris.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestEnsureUserCreatesAccountOnFirstSight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupUserRepository(t)

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	created, err := svc.EnsureUser(ctx, "auth|fresh")
	if err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if created.Role != RoleFree {
		t.Fatalf("expected free role for new account, got %q", created.Role)
	}

	again, err := svc.EnsureUser(ctx, "auth|fresh")
	if err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("expected the same account on the second call, got %d and %d", created.ID, again.ID)
	}

	if _, err := svc.EnsureUser(ctx, "  "); err == nil {
		t.Fatalf("expected blank subject to be rejected")
	}
}

func TestUpdateProfileChangesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupUserRepository(t)

	seed := &User{AuthSubjectID: "auth|edit", Nickname: "editor", Name: "Original"}
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	name := "  Renamed  "
	if err := svc.UpdateProfile(ctx, "auth|edit", ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	stored, err := repo.GetByAuthSubject(ctx, "auth|edit")
	if err != nil || stored == nil {
		t.Fatalf("expected stored user, err: %v", err)
	}
	if stored.Name != "Renamed" {
		t.Fatalf("expected trimmed name 'Renamed', got %q", stored.Name)
	}
	if stored.Nickname != "editor" {
		t.Fatalf("expected nickname untouched, got %q", stored.Nickname)
	}
}

func TestUpdateProfileValidatesNewNickname(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupUserRepository(t)

	first := &User{AuthSubjectID: "auth|one", Nickname: "first"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second := &User{AuthSubjectID: "auth|two", Nickname: "second"}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	taken := "first"
	err = svc.UpdateProfile(ctx, "auth|two", ProfileUpdate{Nickname: &taken})
	if !eris.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}

	banned := "admin"
	err = svc.UpdateProfile(ctx, "auth|two", ProfileUpdate{Nickname: &banned})
	if !eris.Is(err, ErrNicknameNotAllowed) {
		t.Fatalf("expected ErrNicknameNotAllowed, got %v", err)
	}

	unchanged := "second"
	if err := svc.UpdateProfile(ctx, "auth|two", ProfileUpdate{Nickname: &unchanged}); err != nil {
		t.Fatalf("expected keeping the current nickname to succeed, got %v", err)
	}
}

func TestValidateNickname(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupUserRepository(t)

	seed := &User{AuthSubjectID: "auth|seed", Nickname: "seeded"}
	if err := repo.Create(ctx, seed); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := svc.ValidateNickname(ctx, "fresh"); err != nil {
		t.Fatalf("expected fresh nickname to validate, got %v", err)
	}

	if err := svc.ValidateNickname(ctx, "seeded"); !eris.Is(err, ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}

	if err := svc.ValidateNickname(ctx, "anon"); !eris.Is(err, ErrNicknameNotAllowed) {
		t.Fatalf("expected ErrNicknameNotAllowed, got %v", err)
	}

	if err := svc.ValidateNickname(ctx, "   "); err == nil {
		t.Fatalf("expected blank nickname to be rejected")
	}
}
