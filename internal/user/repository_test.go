package user

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/db"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestGetByAuthSubjectReturnsNilForMissingUser(t *testing.T) {
	t.Parallel()

	repo := setupUserRepository(t)

	account, err := repo.GetByAuthSubject(context.Background(), "auth|missing")
	if err != nil {
		t.Fatalf("GetByAuthSubject returned error: %v", err)
	}
	if account != nil {
		t.Fatalf("expected nil user for missing subject, got %#v", account)
	}
}

func TestCreateDefaultsRoleToFree(t *testing.T) {
	t.Parallel()

	repo := setupUserRepository(t)
	ctx := context.Background()

	account := &User{AuthSubjectID: "auth|new", Nickname: "newbie"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := repo.GetByAuthSubject(ctx, "auth|new")
	if err != nil {
		t.Fatalf("GetByAuthSubject returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored user")
	}
	if stored.Role != RoleFree {
		t.Fatalf("expected default role %q, got %q", RoleFree, stored.Role)
	}
}

func TestNicknameExistsAndLookup(t *testing.T) {
	t.Parallel()

	repo := setupUserRepository(t)
	ctx := context.Background()

	account := &User{AuthSubjectID: "auth|nick", Nickname: "taken"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	exists, err := repo.NicknameExists(ctx, "taken")
	if err != nil {
		t.Fatalf("NicknameExists returned error: %v", err)
	}
	if !exists {
		t.Fatalf("expected nickname to exist")
	}

	exists, err = repo.NicknameExists(ctx, "free")
	if err != nil {
		t.Fatalf("NicknameExists returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected nickname to be free")
	}

	stored, err := repo.GetByNickname(ctx, " taken ")
	if err != nil {
		t.Fatalf("GetByNickname returned error: %v", err)
	}
	if stored == nil || stored.AuthSubjectID != "auth|nick" {
		t.Fatalf("expected user by nickname, got %#v", stored)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	t.Parallel()

	repo := setupUserRepository(t)
	ctx := context.Background()

	account := &User{AuthSubjectID: "auth|upd", Nickname: "before"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	account.Nickname = "after"
	account.Name = "Updated Person"
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, err := repo.GetByAuthSubject(ctx, "auth|upd")
	if err != nil {
		t.Fatalf("GetByAuthSubject returned error: %v", err)
	}
	if stored == nil || stored.Nickname != "after" || stored.Name != "Updated Person" {
		t.Fatalf("expected updated user, got %#v", stored)
	}
}

func TestNicknameAllowedRejectsReservedWords(t *testing.T) {
	t.Parallel()

	for _, nickname := range []string{"admin", "anon", "ANON", " Anonymous "} {
		if NicknameAllowed(nickname) {
			t.Fatalf("expected %q to be rejected", nickname)
		}
	}

	if !NicknameAllowed("alice") {
		t.Fatalf("expected 'alice' to be allowed")
	}
}

func setupUserRepository(t *testing.T) *GormRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	if err := gormDB.AutoMigrate(&User{}); err != nil {
		t.Fatalf("AutoMigrate returned error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}
