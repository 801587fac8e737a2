package page

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/user"
)

// Nickname addressing anonymous pages on the content routes.
const AnonymousNickname = "anon"

var (
	// ErrPageNotFound indicates no page exists for the given identity.
	ErrPageNotFound = eris.New("page not found")
	// ErrRevisionNotFound indicates no revision exists for the given id.
	ErrRevisionNotFound = eris.New("revision not found")
	// ErrNotAuthorized indicates the caller may not perform the operation.
	ErrNotAuthorized = eris.New("not authorized")
	// ErrInvalidView indicates an unrecognized explore view.
	ErrInvalidView = eris.New("invalid view parameter")
)

// Service defines page operations built on top of the repositories.
type Service interface {
	SavePage(ctx context.Context, input SaveInput) error
	GetContent(ctx context.Context, nickname string, pageName string) (*Content, error)
	Revisions(ctx context.Context, nickname string, pageName string) ([]PageRevision, error)
	Explore(ctx context.Context, view string, pageNum int, pageSize int) (*ExploreResult, error)
	Profile(ctx context.Context, nickname string) (*Profile, error)
	SetFavorite(ctx context.Context, subject string, identifier string, pageID uint, favorited bool) error
	ExportDocument(ctx context.Context, nickname string, pageName string, revisionID *uint) (*ExportDocument, error)
}

// SaveInput carries a generated artifact into persistence. An empty Subject
// stores the page anonymously.
type SaveInput struct {
	Subject        string
	Name           string
	HTML           string
	JavaScript     string
	ModelUsed      string
	OriginalPrompt string
	EnhancedPrompt string
}

// Content is a stored artifact served back to the renderer.
type Content struct {
	HTML           string
	JavaScript     string
	OriginalPrompt string
	EnhancedPrompt string
	ModelUsed      string
}

// ExploreResult is one page of the public explore feed.
type ExploreResult struct {
	Pages      []Page
	TotalCount int64
	HasMore    bool
}

// Profile is a user together with their pages, newest first.
type Profile struct {
	User  user.User
	Pages []Page
}

// ExportDocument carries the pieces of a standalone downloadable document.
type ExportDocument struct {
	Name       string
	HTML       string
	JavaScript string
}

type service struct {
	pages     Repository
	users     user.Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the page service with its dependencies.
func NewService(pages Repository, users user.Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if pages == nil {
		return nil, eris.New("page repository is required")
	}
	if users == nil {
		return nil, eris.New("user repository is required")
	}

	return &service{pages: pages, users: users, logger: logger, sentryHub: hub}, nil
}

func (s *service) SavePage(ctx context.Context, input SaveInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return eris.New("page name is required")
	}
	if strings.TrimSpace(input.HTML) == "" {
		return eris.New("page html is required")
	}

	var ownerID *uint
	isAnonymous := true
	if subject := strings.TrimSpace(input.Subject); subject != "" {
		account, err := s.users.GetByAuthSubject(ctx, subject)
		if err != nil {
			s.recordError(logrus.Fields{"subject": subject}, err, "resolving page owner")
			return eris.Wrap(err, "resolving page owner")
		}
		if account == nil {
			return eris.Wrap(user.ErrUserNotFound, "resolving page owner")
		}
		ownerID = &account.ID
		isAnonymous = false
	}

	record := &Page{
		Name:           name,
		UserID:         ownerID,
		IsAnonymous:    isAnonymous,
		HTML:           input.HTML,
		JavaScript:     input.JavaScript,
		ModelUsed:      input.ModelUsed,
		OriginalPrompt: input.OriginalPrompt,
		EnhancedPrompt: input.EnhancedPrompt,
	}

	existing, err := s.pages.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		s.recordError(logrus.Fields{"name": name}, err, "fetching existing page")
		return eris.Wrapf(err, "fetching existing page: %s", name)
	}

	if existing == nil {
		if err := s.pages.Create(ctx, record); err != nil {
			s.recordError(logrus.Fields{"name": name}, err, "creating page")
			return eris.Wrapf(err, "creating page: %s", name)
		}
		return nil
	}

	record.IsFavorited = existing.IsFavorited
	if err := s.pages.UpdateWithRevision(ctx, existing, record); err != nil {
		s.recordError(logrus.Fields{"name": name, "page_id": existing.ID}, err, "updating page")
		return eris.Wrapf(err, "updating page: %s", name)
	}

	return nil
}

func (s *service) GetContent(ctx context.Context, nickname string, pageName string) (*Content, error) {
	record, err := s.resolvePage(ctx, nickname, pageName)
	if err != nil {
		return nil, err
	}

	return &Content{
		HTML:           record.HTML,
		JavaScript:     record.JavaScript,
		OriginalPrompt: record.OriginalPrompt,
		EnhancedPrompt: record.EnhancedPrompt,
		ModelUsed:      record.ModelUsed,
	}, nil
}

func (s *service) Revisions(ctx context.Context, nickname string, pageName string) ([]PageRevision, error) {
	// Anonymous pages never accumulate revisions.
	if strings.TrimSpace(nickname) == AnonymousNickname {
		return []PageRevision{}, nil
	}

	record, err := s.resolvePage(ctx, nickname, pageName)
	if err != nil {
		return nil, err
	}

	if record.IsAnonymous {
		return []PageRevision{}, nil
	}

	revisions, err := s.pages.ListRevisions(ctx, record.ID)
	if err != nil {
		s.recordError(logrus.Fields{"page_id": record.ID}, err, "listing revisions")
		return nil, eris.Wrap(err, "listing revisions")
	}

	if revisions == nil {
		revisions = []PageRevision{}
	}

	return revisions, nil
}

func (s *service) Explore(ctx context.Context, view string, pageNum int, pageSize int) (*ExploreResult, error) {
	if view != ViewNew && view != ViewFeatured {
		return nil, eris.Wrapf(ErrInvalidView, "explore view: %s", view)
	}

	pages, total, err := s.pages.ListExplore(ctx, view, pageNum, pageSize)
	if err != nil {
		s.recordError(logrus.Fields{"view": view}, err, "listing explore feed")
		return nil, eris.Wrap(err, "listing explore feed")
	}

	return &ExploreResult{
		Pages:      pages,
		TotalCount: total,
		HasMore:    int64((pageNum+1)*pageSize) < total,
	}, nil
}

func (s *service) Profile(ctx context.Context, nickname string) (*Profile, error) {
	account, err := s.users.GetByNickname(ctx, nickname)
	if err != nil {
		s.recordError(logrus.Fields{"nickname": nickname}, err, "fetching profile user")
		return nil, eris.Wrap(err, "fetching profile user")
	}
	if account == nil {
		return nil, eris.Wrapf(user.ErrUserNotFound, "fetching profile: %s", nickname)
	}

	pages, err := s.pages.ListByUser(ctx, account.ID)
	if err != nil {
		s.recordError(logrus.Fields{"nickname": nickname}, err, "listing profile pages")
		return nil, eris.Wrap(err, "listing profile pages")
	}

	return &Profile{User: *account, Pages: pages}, nil
}

func (s *service) SetFavorite(ctx context.Context, subject string, identifier string, pageID uint, favorited bool) error {
	actor, err := s.users.GetByAuthSubject(ctx, subject)
	if err != nil {
		s.recordError(logrus.Fields{"subject": subject}, err, "resolving favorite actor")
		return eris.Wrap(err, "resolving favorite actor")
	}
	if actor == nil {
		return eris.Wrap(user.ErrUserNotFound, "resolving favorite actor")
	}

	if actor.Role != user.RoleAdmin {
		return eris.Wrap(ErrNotAuthorized, "setting favorite flag")
	}

	record, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		s.recordError(logrus.Fields{"page_id": pageID}, err, "fetching page for favorite")
		return eris.Wrap(err, "fetching page for favorite")
	}
	if record == nil {
		return eris.Wrapf(ErrPageNotFound, "setting favorite flag: %d", pageID)
	}

	if identifier == "anonymous" {
		if !record.IsAnonymous {
			return eris.Wrap(ErrNotAuthorized, "page is not anonymous")
		}
	} else {
		owner, err := s.users.GetByNickname(ctx, identifier)
		if err != nil {
			s.recordError(logrus.Fields{"nickname": identifier}, err, "resolving page owner for favorite")
			return eris.Wrap(err, "resolving page owner for favorite")
		}
		if owner == nil {
			return eris.Wrapf(user.ErrUserNotFound, "resolving page owner: %s", identifier)
		}
		if record.UserID == nil || *record.UserID != owner.ID {
			return eris.Wrap(ErrNotAuthorized, "page does not belong to the specified user")
		}
	}

	if err := s.pages.SetFavorited(ctx, record.ID, favorited); err != nil {
		s.recordError(logrus.Fields{"page_id": record.ID}, err, "updating favorite flag")
		return eris.Wrap(err, "updating favorite flag")
	}

	return nil
}

func (s *service) ExportDocument(ctx context.Context, nickname string, pageName string, revisionID *uint) (*ExportDocument, error) {
	trimmedName := strings.TrimSpace(pageName)
	if trimmedName == "" {
		return nil, eris.New("page name is required")
	}

	if revisionID != nil {
		revision, err := s.pages.GetRevisionByID(ctx, *revisionID)
		if err != nil {
			s.recordError(logrus.Fields{"revision_id": *revisionID}, err, "fetching revision for export")
			return nil, eris.Wrap(err, "fetching revision for export")
		}
		if revision == nil {
			return nil, eris.Wrapf(ErrRevisionNotFound, "exporting revision: %d", *revisionID)
		}
		return &ExportDocument{Name: trimmedName, HTML: revision.HTML, JavaScript: revision.JavaScript}, nil
	}

	record, err := s.resolvePage(ctx, nickname, trimmedName)
	if err != nil {
		return nil, err
	}

	return &ExportDocument{Name: trimmedName, HTML: record.HTML, JavaScript: record.JavaScript}, nil
}

// resolvePage maps a (nickname, pageName) pair to a stored page, treating the
// anonymous nickname as the ownerless namespace.
func (s *service) resolvePage(ctx context.Context, nickname string, pageName string) (*Page, error) {
	trimmedNickname := strings.TrimSpace(nickname)
	if trimmedNickname == "" {
		return nil, eris.New("nickname is required")
	}

	trimmedName := strings.TrimSpace(pageName)
	if trimmedName == "" {
		return nil, eris.New("page name is required")
	}

	var ownerID *uint
	if trimmedNickname != AnonymousNickname {
		account, err := s.users.GetByNickname(ctx, trimmedNickname)
		if err != nil {
			s.recordError(logrus.Fields{"nickname": trimmedNickname}, err, "resolving page nickname")
			return nil, eris.Wrap(err, "resolving page nickname")
		}
		if account == nil {
			return nil, eris.Wrapf(user.ErrUserNotFound, "resolving page nickname: %s", trimmedNickname)
		}
		ownerID = &account.ID
	}

	record, err := s.pages.GetByOwnerAndName(ctx, ownerID, trimmedName)
	if err != nil {
		s.recordError(logrus.Fields{"name": trimmedName}, err, "fetching page")
		return nil, eris.Wrapf(err, "fetching page: %s", trimmedName)
	}
	if record == nil {
		return nil, eris.Wrapf(ErrPageNotFound, "fetching page: %s", trimmedName)
	}

	return record, nil
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
