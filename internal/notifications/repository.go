package notifications

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists notifications.
type Repository interface {
	Create(ctx context.Context, record *Notification) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
}

func NewNotificationRepository(db *bun.DB) repository.Repository[*Notification] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Notification]{
		NewRecord: func() *Notification { return &Notification{} },
		GetID: func(n *Notification) uuid.UUID {
			return n.ID
		},
		SetID: func(n *Notification, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(n *Notification) string {
			return n.ID.String()
		},
	})
}

// BunRepository implements Repository.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Notification]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, repo: NewNotificationRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, record *Notification) (*Notification, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("notification repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.recipient_id = ?", recipientID)
			if unreadOnly {
				q = q.Where("?TableAlias.unread = ?", true)
			}
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("notification repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	res, err := r.db.NewUpdate().
		Model((*Notification)(nil)).
		Set("unread = ?", false).
		Where("?TableAlias.recipient_id = ?", recipientID).
		Where("?TableAlias.unread = ?", true).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// MemoryRepository stores notifications in-memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []*Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(_ context.Context, record *Notification) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.records = append(m.records, &copied)
	out := copied
	return &out, nil
}

func (m *MemoryRepository) ListByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Notification
	for _, rec := range m.records {
		if rec.RecipientID != recipientID || (unreadOnly && !rec.Unread) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepository) MarkAllRead(_ context.Context, recipientID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, rec := range m.records {
		if rec.RecipientID == recipientID && rec.Unread {
			rec.Unread = false
			count++
		}
	}
	return count, nil
}
