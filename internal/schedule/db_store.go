package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/recall/internal/database"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

const mysqlDuplicateEntry = 1062

type itemRow struct {
	ItemID                string        `db:"item_id"`
	NextReviewAt          sql.NullInt64 `db:"next_review_at"`
	NextReviewAtNanos     int64         `db:"next_review_at_nanos"`
	ReviewCount           int           `db:"review_count"`
	LastAttemptSuccessful bool          `db:"last_attempt_successful"`
	IntervalMultiplier    float64       `db:"interval_multiplier"`
	Difficulty            string        `db:"difficulty"`
}

type logRow struct {
	ID                 string        `db:"id"`
	ItemID             string        `db:"item_id"`
	Difficulty         string        `db:"difficulty"`
	WasSuccessful      bool          `db:"was_successful"`
	ReviewCount        int           `db:"review_count"`
	IntervalMultiplier float64       `db:"interval_multiplier"`
	NextReviewAt       sql.NullInt64 `db:"next_review_at"`
	NextReviewAtNanos  int64         `db:"next_review_at_nanos"`
	ReviewedAt         int64         `db:"reviewed_at"`
	ReviewedAtNanos    int64         `db:"reviewed_at_nanos"`
}

// Timestamps are split into Unix seconds and the nanosecond remainder,
// which covers every instant up to Never. Never itself is stored as NULL seconds.
func toUnix(t time.Time) (sql.NullInt64, int64) {
	if !t.Before(scheduler.Never) {
		return sql.NullInt64{}, 0
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}, int64(t.Nanosecond())
}

func fromUnix(seconds sql.NullInt64, nanos int64) time.Time {
	if !seconds.Valid {
		return scheduler.Never
	}
	return time.Unix(seconds.Int64, nanos).UTC()
}

func (r itemRow) toItem() (scheduler.ScheduledItem, error) {
	difficulty, err := scheduler.ParseDifficulty(r.Difficulty)
	if err != nil {
		return scheduler.ScheduledItem{}, fmt.Errorf("item %s: %w", r.ItemID, err)
	}
	return scheduler.ScheduledItem{
		ItemID:                r.ItemID,
		NextReviewAt:          fromUnix(r.NextReviewAt, r.NextReviewAtNanos),
		ReviewCount:           r.ReviewCount,
		LastAttemptSuccessful: r.LastAttemptSuccessful,
		IntervalMultiplier:    r.IntervalMultiplier,
		Difficulty:            difficulty,
	}, nil
}

func (r logRow) toLog() (ReviewLog, error) {
	difficulty, err := scheduler.ParseDifficulty(r.Difficulty)
	if err != nil {
		return ReviewLog{}, fmt.Errorf("review log %s: %w", r.ID, err)
	}
	return ReviewLog{
		ID:                 r.ID,
		ItemID:             r.ItemID,
		Difficulty:         difficulty,
		WasSuccessful:      r.WasSuccessful,
		ReviewCount:        r.ReviewCount,
		IntervalMultiplier: r.IntervalMultiplier,
		NextReviewAt:       fromUnix(r.NextReviewAt, r.NextReviewAtNanos),
		ReviewedAt:         time.Unix(r.ReviewedAt, r.ReviewedAtNanos).UTC(),
	}, nil
}

// DBStore implements Store and HistoryRepository on MySQL or SQLite.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

// Find returns the item, or nil if it is not scheduled.
func (s *DBStore) Find(ctx context.Context, itemID string) (*scheduler.ScheduledItem, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM scheduled_items WHERE item_id = ?", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(scheduled_item) > %w", err)
	}
	item, err := row.toItem()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll returns every scheduled item ordered by item ID.
func (s *DBStore) FindAll(ctx context.Context) ([]scheduler.ScheduledItem, error) {
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM scheduled_items ORDER BY item_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(scheduled_items) > %w", err)
	}

	items := make([]scheduler.ScheduledItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Save inserts the first record of an item or replaces its direct predecessor.
func (s *DBStore) Save(ctx context.Context, item scheduler.ScheduledItem) error {
	if err := validateRecord(item); err != nil {
		return err
	}

	nextReviewAt, nextReviewAtNanos := toUnix(item.NextReviewAt)
	if item.ReviewCount == 1 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO scheduled_items (item_id, next_review_at, next_review_at_nanos, review_count, last_attempt_successful, interval_multiplier, difficulty)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ItemID, nextReviewAt, nextReviewAtNanos, item.ReviewCount, item.LastAttemptSuccessful,
			item.IntervalMultiplier, item.Difficulty.String())
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: %s is already scheduled", ErrStaleRecord, item.ItemID)
		}
		if err != nil {
			return fmt.Errorf("db.ExecContext(insert scheduled_item) > %w", err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_items
		SET next_review_at = ?, next_review_at_nanos = ?, review_count = ?, last_attempt_successful = ?, interval_multiplier = ?, difficulty = ?
		WHERE item_id = ? AND review_count = ?`,
		nextReviewAt, nextReviewAtNanos, item.ReviewCount, item.LastAttemptSuccessful,
		item.IntervalMultiplier, item.Difficulty.String(),
		item.ItemID, item.ReviewCount-1)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update scheduled_item) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s does not have review count %d", ErrStaleRecord, item.ItemID, item.ReviewCount-1)
	}
	return nil
}

// Delete removes an item.
func (s *DBStore) Delete(ctx context.Context, itemID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM scheduled_items WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete scheduled_item) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	return nil
}

// AppendLogs inserts logs in a single transaction using a multi-row INSERT.
func (s *DBStore) AppendLogs(ctx context.Context, logs ...ReviewLog) error {
	if len(logs) == 0 {
		return nil
	}

	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		columns := []string{"id", "item_id", "difficulty", "was_successful", "review_count", "interval_multiplier",
			"next_review_at", "next_review_at_nanos", "reviewed_at", "reviewed_at_nanos"}
		query := database.BuildMultiRowInsert("review_logs", columns, len(logs))

		var args []interface{}
		for _, l := range logs {
			nextReviewAt, nextReviewAtNanos := toUnix(l.NextReviewAt)
			args = append(args, l.ID, l.ItemID, l.Difficulty.String(), l.WasSuccessful, l.ReviewCount,
				l.IntervalMultiplier, nextReviewAt, nextReviewAtNanos, l.ReviewedAt.Unix(), int64(l.ReviewedAt.Nanosecond()))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert review logs: %w", err)
		}
		return nil
	})
}

// FindLogs returns the logs of an item, oldest first.
func (s *DBStore) FindLogs(ctx context.Context, itemID string) ([]ReviewLog, error) {
	var rows []logRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM review_logs WHERE item_id = ? ORDER BY reviewed_at, reviewed_at_nanos, id", itemID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_logs by item) > %w", err)
	}
	return toLogs(rows)
}

// FindAllLogs returns every log, oldest first.
func (s *DBStore) FindAllLogs(ctx context.Context) ([]ReviewLog, error) {
	var rows []logRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM review_logs ORDER BY reviewed_at, reviewed_at_nanos, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_logs) > %w", err)
	}
	return toLogs(rows)
}

func (s *DBStore) DeleteLogs(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM review_logs WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("db.ExecContext(delete review_logs) > %w", err)
	}
	return nil
}

func (s *DBStore) Close() error {
	return s.db.Close()
}

func toLogs(rows []logRow) ([]ReviewLog, error) {
	logs := make([]ReviewLog, 0, len(rows))
	for _, row := range rows {
		log, err := row.toLog()
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	// modernc.org/sqlite reports constraint violations only through the message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
