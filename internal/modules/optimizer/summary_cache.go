package optimizer

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// SummaryCache stores serialized summaries in cache.db. The cache is a pure
// read-model: every write path that changes a goal invalidates its entry, so
// a missing row just means the summary gets recomputed.
type SummaryCache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// NewSummaryCache creates a new summary cache
func NewSummaryCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) *SummaryCache {
	return &SummaryCache{
		db:  db,
		ttl: ttl,
		log: log.With().Str("repo", "summary_cache").Logger(),
	}
}

// Get returns the cached summary for a goal, or ok=false when the entry is
// missing, expired or unreadable.
func (c *SummaryCache) Get(goalID string, now time.Time) (Summary, bool) {
	var (
		payload    []byte
		computedAt string
	)
	err := c.db.QueryRow(
		`SELECT payload, computed_at FROM summary_cache WHERE goal_id = ?`,
		goalID,
	).Scan(&payload, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("goal_id", goalID).Msg("Summary cache read failed")
		return Summary{}, false
	}

	at, err := time.Parse(time.RFC3339Nano, computedAt)
	if err != nil || now.Sub(at) > c.ttl {
		return Summary{}, false
	}

	var s Summary
	if err := msgpack.Unmarshal(payload, &s); err != nil {
		c.log.Warn().Err(err).Str("goal_id", goalID).Msg("Summary cache payload corrupt")
		return Summary{}, false
	}
	return s, true
}

// Put upserts a goal's summary.
func (c *SummaryCache) Put(s Summary, now time.Time) error {
	payload, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO summary_cache (goal_id, payload, computed_at) VALUES (?, ?, ?)
		 ON CONFLICT(goal_id) DO UPDATE SET payload = excluded.payload,
		 computed_at = excluded.computed_at`,
		s.GoalID, payload, now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	return nil
}

// Invalidate drops a goal's cached summary.
func (c *SummaryCache) Invalidate(goalID string) {
	if _, err := c.db.Exec(`DELETE FROM summary_cache WHERE goal_id = ?`, goalID); err != nil {
		c.log.Warn().Err(err).Str("goal_id", goalID).Msg("Summary cache invalidation failed")
	}
}
