package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/permissions"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const activityChannel = "l10n"

const maxMessageLength = 2000

var (
	ErrMessageRequired = errors.New("notifications: message is required")
	ErrMessageTooLong  = errors.New("notifications: message is too long")
	ErrSenderRequired  = errors.New("notifications: sender is required")
	ErrNoRecipients    = errors.New("notifications: no recipients match the selection")
	ErrDisabled        = errors.New("notifications: feature disabled")
)

// Service sends and lists in-app notifications.
type Service interface {
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
	NotifyImport(ctx context.Context, req ImportNotice) (int, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

// SendRequest captures a manager's message to project contributors. Empty
// LocaleCodes addresses contributors of every locale.
type SendRequest struct {
	Project     *projects.Project
	Sender      *users.User
	LocaleCodes []string
	Message     string
}

// SendResult reports the delivered notifications.
type SendResult struct {
	Recipients []uuid.UUID
}

// ImportNotice describes a completed CSV import.
type ImportNotice struct {
	Project   *projects.Project
	Actor     *users.User
	Suggested int
	Activated int
}

// Authorizer is the subset of permissions.Authorizer used here.
type Authorizer interface {
	CanManage(ctx context.Context, user *users.User, projectID uuid.UUID) (bool, error)
	Managers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
}

// LocaleResolver maps locale codes to records.
type LocaleResolver interface {
	GetLocale(ctx context.Context, code string) (*projects.Locale, error)
}

// TranslationSource lists translations to discover contributors.
type TranslationSource interface {
	ProjectTranslations(ctx context.Context, projectID uuid.UUID) ([]*translations.Translation, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithActivitySink logs each delivery as a go-users activity record.
func WithActivitySink(sink interfaces.ActivitySink) ServiceOption {
	return func(s *service) {
		if sink != nil {
			s.activity = sink
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEnabled toggles delivery. Listing keeps working when disabled.
func WithEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.enabled = enabled
	}
}

type service struct {
	repo         Repository
	auth         Authorizer
	locales      LocaleResolver
	translations TranslationSource
	activity     interfaces.ActivitySink
	logger       interfaces.Logger
	now          func() time.Time
	enabled      bool
}

func NewService(repo Repository, auth Authorizer, locales LocaleResolver, source TranslationSource, opts ...ServiceOption) Service {
	s := &service{
		repo:         repo,
		auth:         auth,
		locales:      locales,
		translations: source,
		logger:       logging.NoOp(),
		now:          time.Now,
		enabled:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if req.Sender == nil {
		return nil, ErrSenderRequired
	}
	if req.Project == nil {
		return nil, &projects.NotFoundError{Resource: "project"}
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if len(message) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	ok, err := s.auth.CanManage(ctx, req.Sender, req.Project.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, permissions.Error{Permission: permissions.ProjectsManage}
	}

	recipients, err := s.contributors(ctx, req.Project.ID, req.LocaleCodes)
	if err != nil {
		return nil, err
	}
	recipients = without(recipients, req.Sender.ID)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	logger := logging.WithProjectContext(s.logger, req.Project.Slug, strings.Join(req.LocaleCodes, ","), req.Sender.ID.String())
	for _, recipient := range recipients {
		if err := s.deliver(ctx, recipient, req.Sender.ID, req.Project, VerbMessage, message, map[string]any{
			"locales": req.LocaleCodes,
		}); err != nil {
			logger.Error("notifications.send.failed", "recipient", recipient, "error", err)
			return nil, err
		}
	}
	logger.Info("notifications.send.completed", "recipients", len(recipients))
	return &SendResult{Recipients: recipients}, nil
}

func (s *service) NotifyImport(ctx context.Context, req ImportNotice) (int, error) {
	if !s.enabled || req.Project == nil || req.Suggested == 0 {
		return 0, nil
	}
	managers, err := s.auth.Managers(ctx, req.Project.ID)
	if err != nil {
		return 0, err
	}
	var actorID uuid.UUID
	actorName := "An operator"
	if req.Actor != nil {
		actorID = req.Actor.ID
		actorName = req.Actor.DisplayName()
		managers = without(managers, actorID)
	}
	description := fmt.Sprintf("%s imported %d suggestion(s) into %s.", actorName, req.Suggested, req.Project.Name)
	for _, manager := range managers {
		if err := s.deliver(ctx, manager, actorID, req.Project, VerbImported, description, map[string]any{
			"suggested": req.Suggested,
			"activated": req.Activated,
		}); err != nil {
			return 0, err
		}
	}
	return len(managers), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, userID, unreadOnly)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) deliver(ctx context.Context, recipient, actor uuid.UUID, project *projects.Project, verb, description string, data map[string]any) error {
	now := s.now().UTC()
	record := &Notification{
		ID:              uuid.New(),
		RecipientID:     recipient,
		Verb:            verb,
		TargetProjectID: &project.ID,
		Description:     description,
		Unread:          true,
		Data:            data,
		CreatedAt:       now,
	}
	if actor != uuid.Nil {
		record.ActorID = &actor
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return err
	}
	if s.activity == nil {
		return nil
	}
	return s.activity.Log(ctx, interfaces.ActivityRecord{
		ActorID:    actor,
		UserID:     recipient,
		Verb:       verb,
		ObjectType: "project",
		ObjectID:   project.ID.String(),
		Channel:    activityChannel,
		OccurredAt: now,
		Data: map[string]any{
			"notification_id": created.ID.String(),
			"project":         project.Slug,
		},
	})
}

func (s *service) contributors(ctx context.Context, projectID uuid.UUID, codes []string) ([]uuid.UUID, error) {
	var localeFilter map[uuid.UUID]struct{}
	if len(codes) > 0 {
		localeFilter = make(map[uuid.UUID]struct{}, len(codes))
		for _, code := range codes {
			locale, err := s.locales.GetLocale(ctx, code)
			if err != nil {
				if projects.IsNotFound(err) {
					return nil, fmt.Errorf("%w: %s", projects.ErrUnknownLocale, code)
				}
				return nil, err
			}
			localeFilter[locale.ID] = struct{}{}
		}
	}

	records, err := s.translations.ProjectTranslations(ctx, projectID)
	if err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]struct{}{}
	var out []uuid.UUID
	for _, record := range records {
		if record.UserID == nil {
			continue
		}
		if localeFilter != nil {
			if _, ok := localeFilter[record.LocaleID]; !ok {
				continue
			}
		}
		if _, ok := seen[*record.UserID]; ok {
			continue
		}
		seen[*record.UserID] = struct{}{}
		out = append(out, *record.UserID)
	}
	return out, nil
}

func without(ids []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
