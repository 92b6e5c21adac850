// Package analytics records privacy-conscious visitor metrics: addresses
// are salted and hashed before storage, Do Not Track is honoured, and old
// rows are removed after the retention period.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/db"
)

// skipPrefixes are never recorded as visits.
var skipPrefixes = []string{
	"/static/",
	"/images/",
	"/admin",
	"/api/",
	"/favicon",
	"/privacy",
	"/healthz",
}

const trackTimeout = 5 * time.Second

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Tracker writes visits and section views.
type Tracker struct {
	db   *db.DB
	log  *zap.Logger
	salt string
	now  func() time.Time
	wg   sync.WaitGroup
}

// NewTracker creates a tracker with a fresh per-process hashing salt, so
// hashes are stable for one run and unlinkable across restarts.
func NewTracker(d *db.DB, log *zap.Logger) (*Tracker, error) {
	salt, err := RandomToken()
	if err != nil {
		return nil, err
	}
	log = log.Named("analytics")
	log.Info("visitor tracking enabled with hashed IP addresses")
	return &Tracker{db: d, log: log, salt: salt, now: time.Now}, nil
}

// HashIP returns the truncated salted hash stored in place of an address.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// ShouldTrack reports whether a request for path is recorded. A DNT header
// of "1" opts out.
func ShouldTrack(path, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Track records a visit in the background.
func (t *Tracker) Track(ip, userAgent, path string) {
	hashed := t.HashIP(ip)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		if err := t.RecordVisit(ctx, hashed, userAgent, path); err != nil {
			t.log.Warn("recording visitor", zap.Error(err))
		}
	}()
}

// Wait blocks until background tracking has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// RecordVisit stores one visit.
func (t *Tracker) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, created_at)
		VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, t.now().Unix())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordSectionView stores the first view of section in session and
// reports whether this call stored it.
func (t *Tracker) RecordSectionView(ctx context.Context, session, section string) (bool, error) {
	res, err := t.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO section_views (session_id, section, created_at)
		VALUES (?, ?, ?)`,
		session, section, t.now().Unix())
	if err != nil {
		return false, fmt.Errorf("recording section view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording section view: %w", err)
	}
	return n == 1, nil
}

// Cleanup deletes visits and section views older than retention and
// returns how many rows went.
func (t *Tracker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := t.now().Add(-retention).Unix()

	var total int64
	for _, table := range []string{"visitors", "section_views"} {
		res, err := t.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE created_at < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleaning up %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if total > 0 {
		t.log.Info("privacy cleanup", zap.Int64("rows", total), zap.Duration("retention", retention))
	}
	return total, nil
}
