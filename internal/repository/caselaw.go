package repository

import (
	"context"

	"caselaw-kenya/internal/domain"
)

// CaseUpdate carries the mutable case fields for a partial update. Nil fields
// are left untouched.
type CaseUpdate struct {
	Title          *string
	CaseNumber     *string
	County         *string
	Court          *string
	Judge          *string
	JudgeID        *int64
	LegalTopicID   *int64
	DateOfJudgment *string
	Summary        *string
	FullText       *string
	Region         *string
	Description    *string
	DateFiled      *string
}

// CaseRepository defines persistence operations for case-law records.
type CaseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, c *domain.Case) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Case, error)
	List(ctx context.Context) ([]domain.Case, error)
	ListByCounty(ctx context.Context, county string) ([]domain.Case, error)
	CountByCounty(ctx context.Context, county string) (int64, error)
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Case, error)
	Update(ctx context.Context, id int64, update CaseUpdate) error
	Delete(ctx context.Context, id int64) error
}

// HistoryRepository records and reads per-user case views.
type HistoryRepository interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, userID, caseID int64) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]domain.HistoryEntry, error)
}
