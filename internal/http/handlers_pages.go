package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sitesensei/app/internal/page"
	"sitesensei/app/internal/user"
)

const (
	defaultExploreView     = page.ViewNew
	defaultExplorePageSize = 12
	maxExplorePageSize     = 50
	htmlContentType        = "text/html; charset=utf-8"
)

type saveContentInput struct {
	Body struct {
		PageName       string `json:"pageName,omitempty"`
		HTML           string `json:"html,omitempty"`
		JavaScript     string `json:"javascript,omitempty"`
		ModelUsed      string `json:"modelUsed,omitempty"`
		OriginalPrompt string `json:"originalPrompt,omitempty"`
		EnhancedPrompt string `json:"enhancedPrompt,omitempty"`
	}
}

type saveContentOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

type contentQueryInput struct {
	Nickname string `query:"nickname"`
	PageName string `query:"pageName"`
}

type contentOutput struct {
	Body struct {
		HTML           string `json:"html,omitempty"`
		JavaScript     string `json:"javascript"`
		OriginalPrompt string `json:"originalPrompt"`
		EnhancedPrompt string `json:"enhancedPrompt"`
		ModelUsed      string `json:"modelUsed"`
	}
}

type revisionView struct {
	ID             uint      `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	HTML           string    `json:"html,omitempty"`
	JavaScript     string    `json:"javascript"`
	ModelUsed      string    `json:"modelUsed"`
	OriginalPrompt string    `json:"originalPrompt"`
	EnhancedPrompt string    `json:"enhancedPrompt"`
}

type revisionsOutput struct {
	Body struct {
		Revisions []revisionView `json:"revisions"`
	}
}

type exploreInput struct {
	View     string `query:"view"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

type pageView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Nickname    string    `json:"nickname"`
	IsAnonymous bool      `json:"isAnonymous"`
	IsFavorited bool      `json:"isFavorited,omitempty"`
	ModelUsed   string    `json:"modelUsed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type exploreOutput struct {
	Body struct {
		Pages      []pageView `json:"pages"`
		TotalCount int64      `json:"totalCount"`
		HasMore    bool       `json:"hasMore"`
	}
}

type profileInput struct {
	Nickname string `path:"nickname"`
}

type profileOutput struct {
	Body struct {
		User  userView   `json:"user"`
		Pages []pageView `json:"pages"`
	}
}

type favoriteInput struct {
	Identifier string `path:"identifier"`
	ID         uint   `path:"id"`
	Body       struct {
		IsFavorited bool `json:"isFavorited,omitempty"`
	}
}

type favoriteOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

type downloadInput struct {
	Nickname   string `query:"nickname"`
	PageName   string `query:"pageName"`
	RevisionID uint   `query:"revisionId"`
}

type downloadResponse struct {
	Status             int
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (s *Server) registerPageRoutes() {
	huma.Post(s.api, "/api/content", s.saveContentHandler, func(op *huma.Operation) {
		op.Summary = "Save or update a page"
	})
	huma.Get(s.api, "/api/content", s.contentHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a stored page"
	})
	huma.Get(s.api, "/api/revisions", s.revisionsHandler, func(op *huma.Operation) {
		op.Summary = "List a page's revisions"
	})
	huma.Get(s.api, "/api/explore", s.exploreHandler, func(op *huma.Operation) {
		op.Summary = "Browse public pages"
	})
	huma.Get(s.api, "/api/profile/{nickname}", s.profileHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a user profile with their pages"
	})
	huma.Post(s.api, "/api/pages/{identifier}/{id}/favorite", s.favoriteHandler, func(op *huma.Operation) {
		op.Summary = "Mark a page as featured"
	})
	huma.Register(s.api, huma.Operation{
		OperationID: "download-page",
		Method:      stdhttp.MethodGet,
		Path:        "/api/download",
		Summary:     "Download a page as a standalone HTML file",
	}, s.downloadHandler)
}

func (s *Server) saveContentHandler(ctx context.Context, input *saveContentInput) (*saveContentOutput, error) {
	if strings.TrimSpace(input.Body.PageName) == "" {
		return nil, huma.Error400BadRequest("Page name is required")
	}
	if strings.TrimSpace(input.Body.HTML) == "" {
		return nil, huma.Error400BadRequest("HTML is required")
	}

	subject := SubjectFromContext(ctx)
	if subject != "" {
		if _, err := s.users.EnsureUser(ctx, subject); err != nil {
			s.recordError(ctx, err, "ensuring account before save", nil)
			return nil, huma.Error500InternalServerError("Error saving page")
		}
	}

	err := s.pages.SavePage(ctx, page.SaveInput{
		Subject:        subject,
		Name:           input.Body.PageName,
		HTML:           input.Body.HTML,
		JavaScript:     input.Body.JavaScript,
		ModelUsed:      input.Body.ModelUsed,
		OriginalPrompt: input.Body.OriginalPrompt,
		EnhancedPrompt: input.Body.EnhancedPrompt,
	})
	if err != nil {
		s.recordError(ctx, err, "saving page", logrus.Fields{"page_name": input.Body.PageName})
		return nil, huma.Error500InternalServerError("Error saving page")
	}

	resp := &saveContentOutput{}
	resp.Body.Success = true
	return resp, nil
}

func (s *Server) contentHandler(ctx context.Context, input *contentQueryInput) (*contentOutput, error) {
	if strings.TrimSpace(input.Nickname) == "" || strings.TrimSpace(input.PageName) == "" {
		return nil, huma.Error400BadRequest("Nickname and page name are required")
	}

	content, err := s.pages.GetContent(ctx, input.Nickname, input.PageName)
	if err != nil {
		if eris.Is(err, page.ErrPageNotFound) || eris.Is(err, user.ErrUserNotFound) {
			return nil, huma.Error404NotFound("Page not found")
		}
		s.recordError(ctx, err, "fetching page content", logrus.Fields{"page_name": input.PageName})
		return nil, huma.Error500InternalServerError("Error fetching page")
	}

	resp := &contentOutput{}
	resp.Body.HTML = content.HTML
	resp.Body.JavaScript = content.JavaScript
	resp.Body.OriginalPrompt = content.OriginalPrompt
	resp.Body.EnhancedPrompt = content.EnhancedPrompt
	resp.Body.ModelUsed = content.ModelUsed
	return resp, nil
}

func (s *Server) revisionsHandler(ctx context.Context, input *contentQueryInput) (*revisionsOutput, error) {
	if strings.TrimSpace(input.Nickname) == "" || strings.TrimSpace(input.PageName) == "" {
		return nil, huma.Error400BadRequest("Nickname and page name are required")
	}

	revisions, err := s.pages.Revisions(ctx, input.Nickname, input.PageName)
	if err != nil {
		if eris.Is(err, page.ErrPageNotFound) || eris.Is(err, user.ErrUserNotFound) {
			return nil, huma.Error404NotFound("Page not found")
		}
		s.recordError(ctx, err, "listing revisions", logrus.Fields{"page_name": input.PageName})
		return nil, huma.Error500InternalServerError("Error fetching revisions")
	}

	resp := &revisionsOutput{}
	resp.Body.Revisions = make([]revisionView, 0, len(revisions))
	for _, revision := range revisions {
		resp.Body.Revisions = append(resp.Body.Revisions, revisionView{
			ID:             revision.ID,
			CreatedAt:      revision.CreatedAt,
			HTML:           revision.HTML,
			JavaScript:     revision.JavaScript,
			ModelUsed:      revision.ModelUsed,
			OriginalPrompt: revision.OriginalPrompt,
			EnhancedPrompt: revision.EnhancedPrompt,
		})
	}
	return resp, nil
}

func (s *Server) exploreHandler(ctx context.Context, input *exploreInput) (*exploreOutput, error) {
	view := strings.TrimSpace(input.View)
	if view == "" {
		view = defaultExploreView
	}

	pageNum := input.Page
	if pageNum < 0 {
		return nil, huma.Error400BadRequest("Page must not be negative")
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultExplorePageSize
	}
	if pageSize > maxExplorePageSize {
		pageSize = maxExplorePageSize
	}

	result, err := s.pages.Explore(ctx, view, pageNum, pageSize)
	if err != nil {
		if eris.Is(err, page.ErrInvalidView) {
			return nil, huma.Error400BadRequest("Unknown explore view")
		}
		s.recordError(ctx, err, "browsing explore feed", logrus.Fields{"view": view})
		return nil, huma.Error500InternalServerError("Error fetching pages")
	}

	resp := &exploreOutput{}
	resp.Body.TotalCount = result.TotalCount
	resp.Body.HasMore = result.HasMore
	resp.Body.Pages = make([]pageView, 0, len(result.Pages))
	for _, record := range result.Pages {
		resp.Body.Pages = append(resp.Body.Pages, newPageView(record))
	}
	return resp, nil
}

func (s *Server) profileHandler(ctx context.Context, input *profileInput) (*profileOutput, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, huma.Error400BadRequest("Nickname is required")
	}

	profile, err := s.pages.Profile(ctx, nickname)
	if err != nil {
		if eris.Is(err, user.ErrUserNotFound) {
			return nil, huma.Error404NotFound("Profile not found")
		}
		s.recordError(ctx, err, "fetching profile", logrus.Fields{"nickname": nickname})
		return nil, huma.Error500InternalServerError("Error fetching profile")
	}

	resp := &profileOutput{}
	resp.Body.User = newUserView(&profile.User)
	resp.Body.Pages = make([]pageView, 0, len(profile.Pages))
	for _, record := range profile.Pages {
		view := newPageView(record)
		view.Nickname = profile.User.Nickname
		resp.Body.Pages = append(resp.Body.Pages, view)
	}
	return resp, nil
}

func (s *Server) favoriteHandler(ctx context.Context, input *favoriteInput) (*favoriteOutput, error) {
	subject := SubjectFromContext(ctx)
	if subject == "" {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	err := s.pages.SetFavorite(ctx, subject, input.Identifier, input.ID, input.Body.IsFavorited)
	if err != nil {
		switch {
		case eris.Is(err, page.ErrNotAuthorized):
			return nil, huma.Error403Forbidden("Not authorized to feature pages")
		case eris.Is(err, page.ErrPageNotFound), eris.Is(err, user.ErrUserNotFound):
			return nil, huma.Error404NotFound("Page not found")
		default:
			s.recordError(ctx, err, "setting favorite flag", logrus.Fields{"page_id": input.ID})
			return nil, huma.Error500InternalServerError("Error updating page")
		}
	}

	resp := &favoriteOutput{}
	resp.Body.Success = true
	return resp, nil
}

func (s *Server) downloadHandler(ctx context.Context, input *downloadInput) (*downloadResponse, error) {
	if strings.TrimSpace(input.Nickname) == "" || strings.TrimSpace(input.PageName) == "" {
		return nil, huma.Error400BadRequest("Nickname and page name are required")
	}

	var revisionID *uint
	if input.RevisionID != 0 {
		id := input.RevisionID
		revisionID = &id
	}

	doc, err := s.pages.ExportDocument(ctx, input.Nickname, input.PageName, revisionID)
	if err != nil {
		switch {
		case eris.Is(err, page.ErrPageNotFound), eris.Is(err, user.ErrUserNotFound):
			return nil, huma.Error404NotFound("Page not found")
		case eris.Is(err, page.ErrRevisionNotFound):
			return nil, huma.Error404NotFound("Revision not found")
		default:
			s.recordError(ctx, err, "exporting page", logrus.Fields{"page_name": input.PageName})
			return nil, huma.Error500InternalServerError("Error downloading page")
		}
	}

	body, err := renderComponent(ctx, exportedDocument(doc))
	if err != nil {
		s.recordError(ctx, err, "rendering export document", logrus.Fields{"page_name": input.PageName})
		return nil, huma.Error500InternalServerError("Error downloading page")
	}

	return &downloadResponse{
		Status:             stdhttp.StatusOK,
		ContentType:        htmlContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", doc.Name+".html"),
		Body:               body,
	}, nil
}

func newPageView(record page.Page) pageView {
	view := pageView{
		ID:          record.ID,
		Name:        record.Name,
		IsAnonymous: record.IsAnonymous,
		IsFavorited: record.IsFavorited,
		ModelUsed:   record.ModelUsed,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if record.User != nil {
		view.Nickname = record.User.Nickname
	} else if record.IsAnonymous {
		view.Nickname = page.AnonymousNickname
	}
	return view
}
