// Package usersactivity persists activity records in the go-users
// user_activity table so hosts sharing a go-users database see l10n events
// next to account activity.
package usersactivity

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// Entry is a row of user_activity, laid out as go-users' activity.LogEntry.
type Entry struct {
	bun.BaseModel `bun:"table:user_activity,alias:ua"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid"`
	ActorID    uuid.UUID      `bun:"actor_id,type:uuid"`
	TenantID   uuid.UUID      `bun:"tenant_id,type:uuid"`
	OrgID      uuid.UUID      `bun:"org_id,type:uuid"`
	Verb       string         `bun:"verb"`
	ObjectType string         `bun:"object_type"`
	ObjectID   string         `bun:"object_id"`
	Channel    string         `bun:"channel"`
	IP         string         `bun:"ip"`
	Data       map[string]any `bun:"data,type:jsonb"`
	CreatedAt  time.Time      `bun:"created_at"`
}

// Sink writes go-users activity records through go-repository-bun.
type Sink struct {
	repo repository.Repository[*Entry]
	now  func() time.Time
}

var (
	_ usertypes.ActivitySink  = (*Sink)(nil)
	_ interfaces.ActivitySink = (*Sink)(nil)
)

// Option configures a Sink.
type Option func(*Sink)

// WithClock overrides the timestamp used for records without OccurredAt.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSink(db *bun.DB, opts ...Option) *Sink {
	s := &Sink{
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
			NewRecord: func() *Entry { return &Entry{} },
			GetID: func(e *Entry) uuid.UUID {
				return e.ID
			},
			SetID: func(e *Entry, id uuid.UUID) {
				e.ID = id
			},
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Log stores record. The record ID and timestamp are filled when missing.
func (s *Sink) Log(ctx context.Context, record usertypes.ActivityRecord) error {
	entry := &Entry{
		ID:         record.ID,
		UserID:     record.UserID,
		ActorID:    record.ActorID,
		TenantID:   record.TenantID,
		OrgID:      record.OrgID,
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		IP:         record.IP,
		Data:       record.Data,
		CreatedAt:  record.OccurredAt,
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if _, err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("activity sink: %w", err)
	}
	return nil
}

// ListForUser returns the newest records addressed to userID on channel.
func (s *Sink) ListForUser(ctx context.Context, userID uuid.UUID, channel string, limit int) ([]usertypes.ActivityRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.user_id = ?", userID)
			if channel != "" {
				q = q.Where("?TableAlias.channel = ?", channel)
			}
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("activity sink: %w", err)
	}
	records := make([]usertypes.ActivityRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, usertypes.ActivityRecord{
			ID:         entry.ID,
			UserID:     entry.UserID,
			ActorID:    entry.ActorID,
			TenantID:   entry.TenantID,
			OrgID:      entry.OrgID,
			Verb:       entry.Verb,
			ObjectType: entry.ObjectType,
			ObjectID:   entry.ObjectID,
			Channel:    entry.Channel,
			IP:         entry.IP,
			Data:       entry.Data,
			OccurredAt: entry.CreatedAt,
		})
	}
	return records, nil
}
