package analytics

import (
	"context"
	"fmt"
	"time"
)

// Visit is one stored page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionCount is how many sessions revealed a section.
type SectionCount struct {
	Section string `json:"section"`
	Views   int64  `json:"views"`
}

// MessageCounts groups contact messages by delivery status.
type MessageCounts struct {
	Pending   int64 `json:"pending"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
}

// Total returns the number of messages.
func (m MessageCounts) Total() int64 {
	return m.Pending + m.Delivered + m.Failed
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	SectionViews     []SectionCount `json:"section_views"`
	RecentVisitors   []Visit        `json:"recent_visitors"`
	Messages         MessageCounts  `json:"messages"`
}

const recentVisitorLimit = 50

// Stats collects the dashboard summary.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{
		SectionViews:   []SectionCount{},
		RecentVisitors: []Visit{},
	}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{today.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{week.Unix()}},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("loading visitor counts: %w", err)
		}
	}

	if err := t.sectionViews(ctx, stats); err != nil {
		return nil, err
	}
	if err := t.recentVisitors(ctx, stats); err != nil {
		return nil, err
	}
	if err := t.messageCounts(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (t *Tracker) sectionViews(ctx context.Context, stats *Stats) error {
	rows, err := t.db.QueryContext(ctx, `
		SELECT section, COUNT(*) FROM section_views
		GROUP BY section
		ORDER BY COUNT(*) DESC, section`)
	if err != nil {
		return fmt.Errorf("loading section views: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc SectionCount
		if err := rows.Scan(&sc.Section, &sc.Views); err != nil {
			return fmt.Errorf("scanning section views: %w", err)
		}
		stats.SectionViews = append(stats.SectionViews, sc)
	}
	return rows.Err()
}

func (t *Tracker) recentVisitors(ctx context.Context, stats *Stats) error {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, recentVisitorLimit)
	if err != nil {
		return fmt.Errorf("loading recent visitors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v  Visit
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return rows.Err()
}

func (t *Tracker) messageCounts(ctx context.Context, stats *Stats) error {
	rows, err := t.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return fmt.Errorf("loading message counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return fmt.Errorf("scanning message counts: %w", err)
		}
		switch status {
		case "pending":
			stats.Messages.Pending = n
		case "delivered":
			stats.Messages.Delivered = n
		case "failed":
			stats.Messages.Failed = n
		}
	}
	return rows.Err()
}
