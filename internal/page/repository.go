package page

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Explore views accepted by ListExplore.
const (
	ViewNew      = "new"
	ViewFeatured = "featured"
)

// Repository defines persistence operations for pages and their revisions.
type Repository interface {
	GetByOwnerAndName(ctx context.Context, ownerID *uint, name string) (*Page, error)
	GetByID(ctx context.Context, id uint) (*Page, error)
	Create(ctx context.Context, record *Page) error
	UpdateWithRevision(ctx context.Context, existing *Page, updated *Page) error
	ListByUser(ctx context.Context, userID uint) ([]Page, error)
	ListExplore(ctx context.Context, view string, pageNum int, pageSize int) ([]Page, int64, error)
	ListRevisions(ctx context.Context, pageID uint) ([]PageRevision, error)
	GetRevisionByID(ctx context.Context, id uint) (*PageRevision, error)
	SetFavorited(ctx context.Context, pageID uint, favorited bool) error
	CountPages(ctx context.Context) (int64, error)
}

// GormRepository persists pages using a Gorm database connection.
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

// GetByOwnerAndName returns the page identified by (owner, name), or nil when
// not found. A nil ownerID addresses anonymous pages.
func (r *GormRepository) GetByOwnerAndName(ctx context.Context, ownerID *uint, name string) (*Page, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, eris.New("page name is required")
	}

	query := r.db.WithContext(ctx).Where("name = ?", trimmed)
	if ownerID == nil {
		query = query.Where("user_id IS NULL AND is_anonymous = ?", true)
	} else {
		query = query.Where("user_id = ?", *ownerID)
	}

	var record Page
	if err := query.First(&record).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"name": trimmed}, err, "fetching page by owner and name")
		return nil, eris.Wrapf(err, "fetching page by owner and name: %s", trimmed)
	}

	return &record, nil
}

// GetByID returns the page for the primary key, or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id uint) (*Page, error) {
	var record Page
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"page_id": id}, err, "fetching page by id")
		return nil, eris.Wrapf(err, "fetching page by id: %d", id)
	}

	return &record, nil
}

// Create stores a new page.
func (r *GormRepository) Create(ctx context.Context, record *Page) error {
	if record == nil {
		return eris.New("page is nil")
	}

	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return eris.New("page name is required")
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"name": record.Name}, err, "creating page")
		return eris.Wrapf(err, "creating page: %s", record.Name)
	}

	return nil
}

// UpdateWithRevision snapshots the existing page into a revision and applies
// the update, both inside one transaction. Anonymous pages are updated in
// place without a revision.
func (r *GormRepository) UpdateWithRevision(ctx context.Context, existing *Page, updated *Page) error {
	if existing == nil || updated == nil {
		return eris.New("existing and updated pages are required")
	}

	if existing.ID == 0 {
		return eris.New("existing page id is required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !existing.IsAnonymous {
			revision := &PageRevision{
				PageID:         existing.ID,
				HTML:           existing.HTML,
				JavaScript:     existing.JavaScript,
				ModelUsed:      existing.ModelUsed,
				OriginalPrompt: existing.OriginalPrompt,
				EnhancedPrompt: existing.EnhancedPrompt,
			}
			if err := tx.Create(revision).Error; err != nil {
				return eris.Wrap(err, "creating page revision")
			}
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.UserID = existing.UserID
		updated.IsAnonymous = existing.IsAnonymous
		if err := tx.Save(updated).Error; err != nil {
			return eris.Wrap(err, "saving updated page")
		}

		return nil
	})
	if err != nil {
		r.logError(logrus.Fields{"page_id": existing.ID}, err, "updating page with revision")
		return eris.Wrapf(err, "updating page: %s", existing.Name)
	}

	return nil
}

// ListByUser returns the user's pages, newest first.
func (r *GormRepository) ListByUser(ctx context.Context, userID uint) ([]Page, error) {
	var pages []Page
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		r.logError(logrus.Fields{"user_id": userID}, err, "listing pages by user")
		return nil, eris.Wrap(err, "listing pages by user")
	}

	return pages, nil
}

// ListExplore returns one page of the explore feed plus the total match
// count. The two queries are independent, so they run concurrently.
func (r *GormRepository) ListExplore(ctx context.Context, view string, pageNum int, pageSize int) ([]Page, int64, error) {
	if pageNum < 0 || pageSize <= 0 {
		return nil, 0, eris.New("invalid pagination parameters")
	}

	filtered := func(tx *gorm.DB) *gorm.DB {
		query := tx.Model(&Page{})
		if view == ViewFeatured {
			query = query.Where("is_favorited = ?", true)
		}
		return query
	}

	var pages []Page
	var total int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return filtered(r.db.WithContext(groupCtx)).
			Preload("User").
			Order("updated_at DESC").
			Limit(pageSize).
			Offset(pageNum * pageSize).
			Find(&pages).Error
	})
	group.Go(func() error {
		return filtered(r.db.WithContext(groupCtx)).Count(&total).Error
	})

	if err := group.Wait(); err != nil {
		r.logError(logrus.Fields{"view": view}, err, "listing explore pages")
		return nil, 0, eris.Wrap(err, "listing explore pages")
	}

	return pages, total, nil
}

// ListRevisions returns the page's revisions, newest first.
func (r *GormRepository) ListRevisions(ctx context.Context, pageID uint) ([]PageRevision, error) {
	var revisions []PageRevision
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("created_at DESC").
		Find(&revisions).Error
	if err != nil {
		r.logError(logrus.Fields{"page_id": pageID}, err, "listing page revisions")
		return nil, eris.Wrap(err, "listing page revisions")
	}

	return revisions, nil
}

// GetRevisionByID returns the revision for the primary key, or nil when not found.
func (r *GormRepository) GetRevisionByID(ctx context.Context, id uint) (*PageRevision, error) {
	var revision PageRevision
	if err := r.db.WithContext(ctx).First(&revision, id).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"revision_id": id}, err, "fetching revision by id")
		return nil, eris.Wrapf(err, "fetching revision by id: %d", id)
	}

	return &revision, nil
}

// SetFavorited updates the page's featured flag.
func (r *GormRepository) SetFavorited(ctx context.Context, pageID uint, favorited bool) error {
	result := r.db.WithContext(ctx).
		Model(&Page{}).
		Where("id = ?", pageID).
		Update("is_favorited", favorited)
	if result.Error != nil {
		r.logError(logrus.Fields{"page_id": pageID}, result.Error, "updating favorite flag")
		return eris.Wrap(result.Error, "updating favorite flag")
	}

	if result.RowsAffected == 0 {
		return eris.Errorf("page %d not found", pageID)
	}

	return nil
}

// CountPages returns the total number of persisted pages.
func (r *GormRepository) CountPages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Page{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "counting pages")
		return 0, eris.Wrap(err, "counting pages")
	}

	return count, nil
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
