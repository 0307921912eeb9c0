package notificationscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/commands"
	"github.com/goliatone/go-l10n/internal/notifications"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const (
	sendNotificationMessageType = "l10n.notifications.send"
	maxMessageLength            = 2000
)

// ResultCallback receives the delivered recipients.
type ResultCallback func(*notifications.SendResult)

// SendNotificationCommand asks for a manager message to be delivered to the
// project's contributors.
type SendNotificationCommand struct {
	ProjectSlug    string         `json:"project_slug"`
	SenderID       uuid.UUID      `json:"sender_id"`
	LocaleCodes    []string       `json:"locales,omitempty"`
	Message        string         `json:"message"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SendNotificationCommand) Type() string { return sendNotificationMessageType }

// LogFields names the project, sender and targeted locales.
func (m SendNotificationCommand) LogFields() map[string]any {
	return map[string]any{
		"project":   m.ProjectSlug,
		"sender_id": m.SenderID.String(),
		"locales":   strings.Join(m.LocaleCodes, ","),
	}
}

// Validate checks required fields and the message length.
func (m SendNotificationCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.ProjectSlug) == "" {
		errs["project_slug"] = validation.NewError("l10n.notifications.send.project_required", "project_slug is required")
	}
	if m.SenderID == uuid.Nil {
		errs["sender_id"] = validation.NewError("l10n.notifications.send.sender_required", "sender_id is required")
	}
	if err := validation.Validate(strings.TrimSpace(m.Message),
		validation.Required,
		validation.RuneLength(1, maxMessageLength),
	); err != nil {
		errs["message"] = err
	}
	for _, code := range m.LocaleCodes {
		if strings.TrimSpace(code) == "" {
			errs["locales"] = validation.NewError("l10n.notifications.send.locale_invalid", "locales must not contain empty values")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ProjectLookup resolves projects by slug.
type ProjectLookup interface {
	Get(ctx context.Context, slug string) (*projects.Project, error)
}

// UserLookup resolves the sender.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// SendNotificationHandler delivers manager messages.
type SendNotificationHandler struct {
	inner *commands.Handler[SendNotificationCommand]
}

func NewSendNotificationHandler(service notifications.Service, projectLookup ProjectLookup, userLookup UserLookup, logger interfaces.Logger, opts ...commands.HandlerOption[SendNotificationCommand]) *SendNotificationHandler {
	exec := func(ctx context.Context, msg SendNotificationCommand) error {
		project, err := projectLookup.Get(ctx, strings.TrimSpace(msg.ProjectSlug))
		if err != nil {
			return err
		}
		sender, err := userLookup.GetByID(ctx, msg.SenderID)
		if err != nil {
			return err
		}
		result, err := service.Send(ctx, notifications.SendRequest{
			Project:     project,
			Sender:      sender,
			LocaleCodes: msg.LocaleCodes,
			Message:     msg.Message,
		})
		if err != nil {
			return err
		}
		commands.Logger(ctx).Info("notifications.send.delivered", "recipients", len(result.Recipients))
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SendNotificationCommand]{
		commands.WithLogger[SendNotificationCommand](logger),
		commands.WithOperation[SendNotificationCommand]("notifications.send"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SendNotificationHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SendNotificationCommand].
func (h *SendNotificationHandler) Execute(ctx context.Context, msg SendNotificationCommand) error {
	return h.inner.Execute(ctx, msg)
}
