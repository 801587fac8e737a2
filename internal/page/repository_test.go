package page

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/db"
	"sitesensei/app/internal/user"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestGetByOwnerAndNameReturnsNilForMissingPage(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)

	record, err := repo.GetByOwnerAndName(context.Background(), nil, "missing")
	if err != nil {
		t.Fatalf("GetByOwnerAndName returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil page for missing name, got %#v", record)
	}
}

func TestAnonymousAndOwnedPagesShareNames(t *testing.T) {
	t.Parallel()

	repo, users := setupRepository(t)
	ctx := context.Background()

	owner := createUser(t, users, "auth|owner", "owner")

	anonymous := &Page{Name: "landing", IsAnonymous: true, HTML: "<p>anon</p>"}
	if err := repo.Create(ctx, anonymous); err != nil {
		t.Fatalf("Create anonymous returned error: %v", err)
	}

	owned := &Page{Name: "landing", UserID: &owner.ID, HTML: "<p>owned</p>"}
	if err := repo.Create(ctx, owned); err != nil {
		t.Fatalf("Create owned returned error: %v", err)
	}

	anonStored, err := repo.GetByOwnerAndName(ctx, nil, "landing")
	if err != nil {
		t.Fatalf("GetByOwnerAndName returned error: %v", err)
	}
	if anonStored == nil || anonStored.HTML != "<p>anon</p>" {
		t.Fatalf("expected anonymous page, got %#v", anonStored)
	}

	ownedStored, err := repo.GetByOwnerAndName(ctx, &owner.ID, "landing")
	if err != nil {
		t.Fatalf("GetByOwnerAndName returned error: %v", err)
	}
	if ownedStored == nil || ownedStored.HTML != "<p>owned</p>" {
		t.Fatalf("expected owned page, got %#v", ownedStored)
	}
}

func TestUpdateWithRevisionSnapshotsPriorContent(t *testing.T) {
	t.Parallel()

	repo, users := setupRepository(t)
	ctx := context.Background()

	owner := createUser(t, users, "auth|rev", "revowner")

	original := &Page{
		Name:           "portfolio",
		UserID:         &owner.ID,
		HTML:           "<p>v1</p>",
		JavaScript:     "console.log('v1')",
		ModelUsed:      "provider/model-a",
		OriginalPrompt: "first prompt",
	}
	if err := repo.Create(ctx, original); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated := &Page{
		Name:       "portfolio",
		HTML:       "<p>v2</p>",
		JavaScript: "console.log('v2')",
		ModelUsed:  "provider/model-b",
	}
	if err := repo.UpdateWithRevision(ctx, original, updated); err != nil {
		t.Fatalf("UpdateWithRevision returned error: %v", err)
	}

	stored, err := repo.GetByOwnerAndName(ctx, &owner.ID, "portfolio")
	if err != nil {
		t.Fatalf("GetByOwnerAndName returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected page after update")
	}
	if stored.ID != original.ID {
		t.Fatalf("expected page identity to survive the update, got id %d", stored.ID)
	}
	if stored.HTML != "<p>v2</p>" {
		t.Fatalf("expected updated html, got %q", stored.HTML)
	}

	revisions, err := repo.ListRevisions(ctx, original.ID)
	if err != nil {
		t.Fatalf("ListRevisions returned error: %v", err)
	}
	if len(revisions) != 1 {
		t.Fatalf("expected one revision, got %d", len(revisions))
	}
	if revisions[0].HTML != "<p>v1</p>" {
		t.Fatalf("expected revision to hold prior html, got %q", revisions[0].HTML)
	}
	if revisions[0].ModelUsed != "provider/model-a" {
		t.Fatalf("expected revision to copy the prior model, got %q", revisions[0].ModelUsed)
	}
}

func TestUpdateWithRevisionSkipsAnonymousSnapshots(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)
	ctx := context.Background()

	original := &Page{Name: "scratch", IsAnonymous: true, HTML: "<p>v1</p>"}
	if err := repo.Create(ctx, original); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated := &Page{Name: "scratch", HTML: "<p>v2</p>"}
	if err := repo.UpdateWithRevision(ctx, original, updated); err != nil {
		t.Fatalf("UpdateWithRevision returned error: %v", err)
	}

	revisions, err := repo.ListRevisions(ctx, original.ID)
	if err != nil {
		t.Fatalf("ListRevisions returned error: %v", err)
	}
	if len(revisions) != 0 {
		t.Fatalf("expected no revisions for anonymous page, got %d", len(revisions))
	}

	stored, err := repo.GetByOwnerAndName(ctx, nil, "scratch")
	if err != nil {
		t.Fatalf("GetByOwnerAndName returned error: %v", err)
	}
	if stored == nil || !stored.IsAnonymous {
		t.Fatalf("expected page to stay anonymous, got %#v", stored)
	}
	if stored.HTML != "<p>v2</p>" {
		t.Fatalf("expected updated html, got %q", stored.HTML)
	}
}

func TestListExploreFiltersFeatured(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)
	ctx := context.Background()

	records := []Page{
		{Name: "one", IsAnonymous: true, HTML: "<p>1</p>"},
		{Name: "two", IsAnonymous: true, HTML: "<p>2</p>", IsFavorited: true},
		{Name: "three", IsAnonymous: true, HTML: "<p>3</p>"},
	}
	for _, record := range records {
		r := record
		if err := repo.Create(ctx, &r); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	pages, total, err := repo.ListExplore(ctx, ViewNew, 0, 10)
	if err != nil {
		t.Fatalf("ListExplore returned error: %v", err)
	}
	if total != 3 || len(pages) != 3 {
		t.Fatalf("expected all three pages, got %d rows and total %d", len(pages), total)
	}

	featured, featuredTotal, err := repo.ListExplore(ctx, ViewFeatured, 0, 10)
	if err != nil {
		t.Fatalf("ListExplore returned error: %v", err)
	}
	if featuredTotal != 1 || len(featured) != 1 {
		t.Fatalf("expected one featured page, got %d rows and total %d", len(featured), featuredTotal)
	}
	if featured[0].Name != "two" {
		t.Fatalf("expected featured page 'two', got %q", featured[0].Name)
	}
}

func TestListExplorePaginates(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)
	ctx := context.Background()

	names := []string{"a", "b", "c", "d", "e"}
	for _, name := range names {
		record := &Page{Name: name, IsAnonymous: true, HTML: "<p>x</p>"}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	first, total, err := repo.ListExplore(ctx, ViewNew, 0, 2)
	if err != nil {
		t.Fatalf("ListExplore returned error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 rows on first page, got %d", len(first))
	}

	last, _, err := repo.ListExplore(ctx, ViewNew, 2, 2)
	if err != nil {
		t.Fatalf("ListExplore returned error: %v", err)
	}
	if len(last) != 1 {
		t.Fatalf("expected 1 row on last page, got %d", len(last))
	}
}

func TestSetFavoritedRequiresExistingPage(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)
	ctx := context.Background()

	if err := repo.SetFavorited(ctx, 12345, true); err == nil {
		t.Fatalf("expected error when favoriting a missing page")
	}

	record := &Page{Name: "star", IsAnonymous: true, HTML: "<p>star</p>"}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.SetFavorited(ctx, record.ID, true); err != nil {
		t.Fatalf("SetFavorited returned error: %v", err)
	}

	stored, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil || !stored.IsFavorited {
		t.Fatalf("expected page to be favorited, got %#v", stored)
	}
}

func setupRepository(t *testing.T) (*GormRepository, *user.GormRepository) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pages.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if err := Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	users, err := user.NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("user.NewRepository returned error: %v", err)
	}

	return repo, users
}

func createUser(t *testing.T, users *user.GormRepository, subject string, nickname string) *user.User {
	t.Helper()

	account := &user.User{AuthSubjectID: subject, Nickname: nickname}
	if err := users.Create(context.Background(), account); err != nil {
		t.Fatalf("creating user returned error: %v", err)
	}

	return account
}
