package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/identity"
	"github.com/goliatone/go-l10n/internal/users"
)

// Service exposes project, locale and tag use-cases.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	ChangeSlug(ctx context.Context, projectID uuid.UUID, newSlug string) (*Project, error)
	Get(ctx context.Context, slug string) (*Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	GetVisible(ctx context.Context, slug string, user *users.User) (*Project, error)
	ListVisible(ctx context.Context, user *users.User) ([]*Project, error)

	CreateLocale(ctx context.Context, code, name string) (*Locale, error)
	GetLocale(ctx context.Context, code string) (*Locale, error)
	GetLocaleByName(ctx context.Context, name string) (*Locale, error)
	ListLocales(ctx context.Context) ([]*Locale, error)
	AddLocale(ctx context.Context, projectID uuid.UUID, code string) error
	Locales(ctx context.Context, projectID uuid.UUID) ([]*Locale, error)
	HasLocale(ctx context.Context, projectID uuid.UUID, code string) (bool, error)

	CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error)
	TagResource(ctx context.Context, tagID, resourceID uuid.UUID) error
	Tags(ctx context.Context, projectID uuid.UUID) ([]*Tag, error)
}

// CreateProjectRequest captures the fields required to register a project.
type CreateProjectRequest struct {
	Slug          string
	Name          string
	Info          string
	Visibility    domain.Visibility
	SystemProject bool
	TagsEnabled   bool
	Locales       []string
}

// CreateTagRequest captures tag attributes.
type CreateTagRequest struct {
	ProjectID uuid.UUID
	Slug      string
	Name      string
	Priority  int
}

// VisibilityPolicy decides whether a user may see a project. A nil user is
// anonymous.
type VisibilityPolicy interface {
	CanView(ctx context.Context, user *users.User, project *Project) (bool, error)
}

// PublicOnlyPolicy shows enabled, public, non-system projects and everything
// to superusers.
type PublicOnlyPolicy struct{}

func (PublicOnlyPolicy) CanView(_ context.Context, user *users.User, project *Project) (bool, error) {
	if project == nil {
		return false, nil
	}
	if user != nil && user.IsSuperuser {
		return true, nil
	}
	return project.IsPublic() && !project.Disabled && !project.SystemProject, nil
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithVisibilityPolicy replaces the default public-only policy.
func WithVisibilityPolicy(policy VisibilityPolicy) ServiceOption {
	return func(s *service) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithTagRepository enables tag operations.
func WithTagRepository(repo TagRepository) ServiceOption {
	return func(s *service) {
		s.tags = repo
	}
}

// WithDeterministicIDs derives project and locale IDs from their slugs and
// codes.
func WithDeterministicIDs(enabled bool) ServiceOption {
	return func(s *service) {
		s.deterministic = enabled
	}
}

type service struct {
	projects      ProjectRepository
	locales       LocaleRepository
	tags          TagRepository
	policy        VisibilityPolicy
	now           func() time.Time
	deterministic bool
}

// NewService constructs a project service with the required dependencies.
func NewService(projects ProjectRepository, locales LocaleRepository, opts ...ServiceOption) Service {
	s := &service{
		projects: projects,
		locales:  locales,
		policy:   PublicOnlyPolicy{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	raw := strings.TrimSpace(req.Slug)
	if raw == "" {
		raw = name
	}
	normalized, err := normalizeSlug(raw)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, normalized); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	now := s.now().UTC()
	record := &Project{
		ID:            s.projectID(normalized),
		Slug:          normalized,
		Name:          name,
		Info:          req.Info,
		Visibility:    visibility,
		SystemProject: req.SystemProject,
		TagsEnabled:   req.TagsEnabled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := s.projects.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	for _, code := range req.Locales {
		if err := s.AddLocale(ctx, created.ID, code); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (s *service) ChangeSlug(ctx context.Context, projectID uuid.UUID, newSlug string) (*Project, error) {
	normalized, err := normalizeSlug(newSlug)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Slug == normalized {
		return project, nil
	}
	if err := s.ensureSlugAvailable(ctx, normalized); err != nil {
		return nil, err
	}

	old := project.Slug
	project.Slug = normalized
	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, err
	}
	if err := s.projects.AddSlugHistory(ctx, &ProjectSlugHistory{
		ID:        uuid.New(),
		ProjectID: projectID,
		OldSlug:   old,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// Get resolves a project by its current slug. Retired slugs yield a
// *SlugRedirectError carrying the current one.
func (s *service) Get(ctx context.Context, slugValue string) (*Project, error) {
	project, err := s.projects.GetBySlug(ctx, slugValue)
	if err == nil {
		return project, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	moved, historyErr := s.projects.GetBySlugHistory(ctx, slugValue)
	if historyErr != nil {
		if IsNotFound(historyErr) {
			return nil, err
		}
		return nil, historyErr
	}
	return nil, &SlugRedirectError{OldSlug: slugValue, Slug: moved.Slug}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Project, error) {
	return s.projects.GetByName(ctx, strings.TrimSpace(name))
}

// GetVisible behaves like Get but reports hidden projects as not found.
func (s *service) GetVisible(ctx context.Context, slugValue string, user *users.User) (*Project, error) {
	project, err := s.Get(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	ok, err := s.policy.CanView(ctx, user, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: slugValue}
	}
	return project, nil
}

func (s *service) ListVisible(ctx context.Context, user *users.User) ([]*Project, error) {
	all, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Project, 0, len(all))
	for _, project := range all {
		ok, err := s.policy.CanView(ctx, user, project)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, project)
		}
	}
	return out, nil
}

func (s *service) CreateLocale(ctx context.Context, code, name string) (*Locale, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, ErrLocaleRequired
	}
	if existing, err := s.locales.GetByCode(ctx, code); err == nil {
		return existing, nil
	} else if !IsNotFound(err) {
		return nil, err
	}
	id := uuid.New()
	if s.deterministic {
		id = identity.LocaleUUID(code)
	}
	return s.locales.Create(ctx, &Locale{ID: id, Code: code, Name: name, CreatedAt: s.now().UTC()})
}

func (s *service) GetLocale(ctx context.Context, code string) (*Locale, error) {
	return s.locales.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *service) GetLocaleByName(ctx context.Context, name string) (*Locale, error) {
	return s.locales.GetByName(ctx, strings.TrimSpace(name))
}

func (s *service) ListLocales(ctx context.Context) ([]*Locale, error) {
	return s.locales.List(ctx)
}

func (s *service) AddLocale(ctx context.Context, projectID uuid.UUID, code string) error {
	locale, err := s.locales.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if IsNotFound(err) {
			return ErrUnknownLocale
		}
		return err
	}
	return s.projects.AddLocale(ctx, projectID, locale.ID)
}

func (s *service) Locales(ctx context.Context, projectID uuid.UUID) ([]*Locale, error) {
	return s.projects.ListLocales(ctx, projectID)
}

func (s *service) HasLocale(ctx context.Context, projectID uuid.UUID, code string) (bool, error) {
	locales, err := s.projects.ListLocales(ctx, projectID)
	if err != nil {
		return false, err
	}
	for _, locale := range locales {
		if locale.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	if s.tags == nil {
		return nil, errors.New("projects: tag repository not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	raw := strings.TrimSpace(req.Slug)
	if raw == "" {
		raw = name
	}
	normalized, err := normalizeSlug(raw)
	if err != nil {
		return nil, err
	}
	return s.tags.Create(ctx, &Tag{
		ID:        uuid.New(),
		ProjectID: req.ProjectID,
		Slug:      normalized,
		Name:      name,
		Priority:  req.Priority,
	})
}

func (s *service) TagResource(ctx context.Context, tagID, resourceID uuid.UUID) error {
	if s.tags == nil {
		return errors.New("projects: tag repository not configured")
	}
	return s.tags.AttachResource(ctx, tagID, resourceID)
}

func (s *service) Tags(ctx context.Context, projectID uuid.UUID) ([]*Tag, error) {
	if s.tags == nil {
		return nil, nil
	}
	return s.tags.ListByProject(ctx, projectID)
}

func (s *service) ensureSlugAvailable(ctx context.Context, value string) error {
	if existing, err := s.projects.GetBySlug(ctx, value); err == nil && existing != nil {
		return ErrSlugExists
	} else if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

func (s *service) projectID(slugValue string) uuid.UUID {
	if s.deterministic {
		return identity.ProjectUUID(slugValue)
	}
	return uuid.New()
}

func normalizeSlug(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrSlugRequired
	}
	normalized, err := slug.Normalize(value)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}
