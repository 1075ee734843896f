package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS user_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	case_id INTEGER NOT NULL,
	viewed_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(case_id) REFERENCES cases(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_user_history_user_id ON user_history(user_id);
`

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("create user_history table: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Record(ctx context.Context, userID, caseID int64) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO user_history (user_id, case_id, viewed_at)
VALUES (?, ?, ?)`,
		userID,
		caseID,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT h.user_id, h.case_id, c.title, c.case_number, c.county, h.viewed_at
FROM user_history h
JOIN cases c ON h.case_id = c.id
WHERE h.user_id = ?
ORDER BY h.viewed_at DESC
LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			entry    domain.HistoryEntry
			viewedAt time.Time
		)
		if err := rows.Scan(&entry.UserID, &entry.CaseID, &entry.CaseTitle, &entry.CaseNumber, &entry.County, &viewedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.ViewedAt = viewedAt.Local()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
