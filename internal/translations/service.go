package translations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/identity"
)

var (
	ErrPathRequired   = errors.New("translations: resource path is required")
	ErrKeyRequired    = errors.New("translations: entity key is required")
	ErrEntityRequired = errors.New("translations: entity and locale are required")
)

// Service exposes resource, entity and translation use-cases.
type Service interface {
	CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error)
	CreateEntity(ctx context.Context, req CreateEntityRequest) (*Entity, error)
	Resource(ctx context.Context, projectID uuid.UUID, path string) (*Resource, error)
	Resources(ctx context.Context, projectID uuid.UUID) ([]*Resource, error)
	// FindEntity resolves a spreadsheet key against the resource's stored keys.
	FindEntity(ctx context.Context, resource *Resource, key string) (*Entity, error)
	Entities(ctx context.Context, projectID uuid.UUID) ([]*Entity, error)
	Submit(ctx context.Context, req SubmitRequest) (*Translation, error)
	ListFor(ctx context.Context, entityID, localeID uuid.UUID) ([]*Translation, error)
	ProjectTranslations(ctx context.Context, projectID uuid.UUID) ([]*Translation, error)
	ActiveTranslations(ctx context.Context, projectID uuid.UUID) ([]*Translation, error)
}

// CreateResourceRequest captures resource attributes.
type CreateResourceRequest struct {
	ProjectID uuid.UUID
	Path      string
	Format    domain.Format
}

// CreateEntityRequest captures entity attributes.
type CreateEntityRequest struct {
	ResourceID uuid.UUID
	Key        string
	String     string
	Order      int
	Obsolete   bool
}

// SubmitRequest captures a new translation. Approved implies Active and is
// ignored for rejected strings.
type SubmitRequest struct {
	EntityID      uuid.UUID
	LocaleID      uuid.UUID
	UserID        *uuid.UUID
	String        string
	Active        bool
	Approved      bool
	Rejected      bool
	Pretranslated bool
	Fuzzy         bool
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

// WithDeterministicIDs derives resource and entity IDs from their natural
// keys.
func WithDeterministicIDs(enabled bool) ServiceOption {
	return func(s *service) {
		s.deterministic = enabled
	}
}

type service struct {
	resources     ResourceRepository
	entities      EntityRepository
	translations  TranslationRepository
	now           func() time.Time
	deterministic bool
}

// NewService constructs a translation service with the required repositories.
func NewService(resources ResourceRepository, entities EntityRepository, translations TranslationRepository, opts ...ServiceOption) Service {
	s := &service{
		resources:    resources,
		entities:     entities,
		translations: translations,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateResource(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return nil, ErrPathRequired
	}
	id := uuid.New()
	if s.deterministic {
		id = identity.ResourceUUID(req.ProjectID, path)
	}
	return s.resources.Create(ctx, &Resource{
		ID:        id,
		ProjectID: req.ProjectID,
		Path:      path,
		Format:    domain.NormalizeFormat(string(req.Format)),
		CreatedAt: s.now().UTC(),
	})
}

func (s *service) CreateEntity(ctx context.Context, req CreateEntityRequest) (*Entity, error) {
	if req.Key == "" {
		return nil, ErrKeyRequired
	}
	id := uuid.New()
	if s.deterministic {
		id = identity.EntityUUID(req.ResourceID, req.Key)
	}
	return s.entities.Create(ctx, &Entity{
		ID:         id,
		ResourceID: req.ResourceID,
		Key:        req.Key,
		String:     req.String,
		Order:      req.Order,
		Obsolete:   req.Obsolete,
		CreatedAt:  s.now().UTC(),
	})
}

func (s *service) Resource(ctx context.Context, projectID uuid.UUID, path string) (*Resource, error) {
	return s.resources.GetByPath(ctx, projectID, path)
}

func (s *service) Resources(ctx context.Context, projectID uuid.UUID) ([]*Resource, error) {
	return s.resources.ListByProject(ctx, projectID)
}

func (s *service) FindEntity(ctx context.Context, resource *Resource, key string) (*Entity, error) {
	candidates, err := LookupKeys(resource.Format, key)
	if err != nil {
		return nil, err
	}
	return s.entities.GetByKey(ctx, resource.ID, candidates...)
}

func (s *service) Entities(ctx context.Context, projectID uuid.UUID) ([]*Entity, error) {
	return s.entities.ListByProject(ctx, projectID)
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Translation, error) {
	if req.EntityID == uuid.Nil || req.LocaleID == uuid.Nil {
		return nil, ErrEntityRequired
	}
	now := s.now().UTC()
	record := &Translation{
		ID:            uuid.New(),
		EntityID:      req.EntityID,
		LocaleID:      req.LocaleID,
		UserID:        req.UserID,
		String:        req.String,
		Date:          now,
		Pretranslated: req.Pretranslated,
		Fuzzy:         req.Fuzzy,
	}
	if req.Rejected {
		record.Rejected = true
		record.RejectedUserID = req.UserID
		record.RejectedDate = &now
	}
	if req.Approved && !req.Rejected {
		record.Approved = true
		record.ApprovedUserID = req.UserID
		record.ApprovedDate = &now
		return s.translations.Activate(ctx, record)
	}
	if req.Active {
		return s.translations.Activate(ctx, record)
	}
	return s.translations.Create(ctx, record)
}

func (s *service) ListFor(ctx context.Context, entityID, localeID uuid.UUID) ([]*Translation, error) {
	return s.translations.ListFor(ctx, entityID, localeID)
}

func (s *service) ProjectTranslations(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return s.translations.ListByProject(ctx, projectID)
}

func (s *service) ActiveTranslations(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return s.translations.ListActiveByProject(ctx, projectID)
}
