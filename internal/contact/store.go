package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/EmmanuelR15/portfolio/internal/db"
)

// DeliveryStatus tracks a stored message through delivery.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

var ErrMessageNotFound = errors.New("contact message not found")

// Record is a stored message with its delivery outcome.
type Record struct {
	Message
	Status      DeliveryStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}

// Store is the sqlite outbox of contact messages.
type Store struct {
	db  *db.DB
	now func() time.Time
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d, now: time.Now}
}

// Save inserts m as pending.
func (s *Store) Save(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, message, hashed_ip, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Body, m.HashedIP, DeliveryPending, m.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving contact message: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return fmt.Errorf("updating contact message %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating contact message %s: %w", id, err)
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	return s.update(ctx, id,
		`UPDATE contact_messages SET status = ?, error = '', delivered_at = ? WHERE id = ?`,
		DeliveryDelivered, s.now().Unix())
}

func (s *Store) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.update(ctx, id,
		`UPDATE contact_messages SET status = ?, error = ? WHERE id = ?`,
		DeliveryFailed, msg)
}

const selectRecord = `SELECT id, name, email, message, hashed_ip, status, error, created_at, delivered_at FROM contact_messages`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r         Record
		created   int64
		delivered sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Body, &r.HashedIP, &r.Status, &r.Error, &created, &delivered)
	if err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	if delivered.Valid {
		t := time.Unix(delivered.Int64, 0).UTC()
		r.DeliveredAt = &t
	}
	return r, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrMessageNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("loading contact message %s: %w", id, err)
	}
	return r, nil
}

// List returns the newest messages first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns how many messages have status; an empty status counts all.
func (s *Store) Count(ctx context.Context, status DeliveryStatus) (int, error) {
	var n int
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE status = ?`, status).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("counting contact messages: %w", err)
	}
	return n, nil
}
