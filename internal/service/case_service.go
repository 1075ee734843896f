package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

// ErrCaseNotFound is returned when an operation targets a missing case.
var ErrCaseNotFound = errors.New("case not found")

// CaseInput carries case fields for create and update. Nil fields are absent:
// on create they default to empty, on update they are left unchanged.
type CaseInput struct {
	Title          *string
	CaseNumber     *string
	Court          *string
	Judge          *string
	JudgeID        *int64
	LegalTopicID   *int64
	DateOfJudgment *string
	Summary        *string
	FullText       *string
	Region         *string
	County         *string
	Description    *string
	DateFiled      *string
}

// CaseService coordinates case-law lookups, admin mutations and view history.
type CaseService interface {
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	ListByCounty(ctx context.Context, county string) ([]domain.Case, error)
	CountByCounty(ctx context.Context, county string) (int64, error)
	GetCase(ctx context.Context, id int64) (*domain.Case, error)
	CreateCase(ctx context.Context, input CaseInput) (*domain.Case, error)
	UpdateCase(ctx context.Context, id int64, input CaseInput) error
	DeleteCase(ctx context.Context, id int64) error
	RecordView(ctx context.Context, userID, caseID int64) error
	RecentHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error)
}

type caseService struct {
	cases   repository.CaseRepository
	history repository.HistoryRepository
}

func NewCaseService(cases repository.CaseRepository, history repository.HistoryRepository) CaseService {
	return &caseService{
		cases:   cases,
		history: history,
	}
}

func (s *caseService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Case, error) {
	return s.cases.Search(ctx, filter)
}

func (s *caseService) ListCases(ctx context.Context) ([]domain.Case, error) {
	return s.cases.List(ctx)
}

func (s *caseService) ListByCounty(ctx context.Context, county string) ([]domain.Case, error) {
	return s.cases.ListByCounty(ctx, county)
}

func (s *caseService) CountByCounty(ctx context.Context, county string) (int64, error) {
	return s.cases.CountByCounty(ctx, county)
}

func (s *caseService) GetCase(ctx context.Context, id int64) (*domain.Case, error) {
	c, err := s.cases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *caseService) CreateCase(ctx context.Context, input CaseInput) (*domain.Case, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, fmt.Errorf("%w: case title is required", ErrValidation)
	}
	if input.CaseNumber == nil || strings.TrimSpace(*input.CaseNumber) == "" {
		return nil, fmt.Errorf("%w: case number is required", ErrValidation)
	}
	if err := validateDates(input); err != nil {
		return nil, err
	}

	c := &domain.Case{
		Title:          strings.TrimSpace(*input.Title),
		CaseNumber:     strings.TrimSpace(*input.CaseNumber),
		Court:          derefString(input.Court),
		Judge:          derefString(input.Judge),
		JudgeID:        input.JudgeID,
		LegalTopicID:   input.LegalTopicID,
		DateOfJudgment: derefString(input.DateOfJudgment),
		Summary:        derefString(input.Summary),
		FullText:       derefString(input.FullText),
		Region:         derefString(input.Region),
		County:         derefString(input.County),
		Description:    derefString(input.Description),
		DateFiled:      derefString(input.DateFiled),
	}

	if _, err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *caseService) UpdateCase(ctx context.Context, id int64, input CaseInput) error {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return fmt.Errorf("%w: case title must not be empty", ErrValidation)
	}
	if input.CaseNumber != nil && strings.TrimSpace(*input.CaseNumber) == "" {
		return fmt.Errorf("%w: case number must not be empty", ErrValidation)
	}
	if err := validateDates(input); err != nil {
		return err
	}

	update := repository.CaseUpdate{
		Title:          input.Title,
		CaseNumber:     input.CaseNumber,
		Court:          input.Court,
		Judge:          input.Judge,
		JudgeID:        input.JudgeID,
		LegalTopicID:   input.LegalTopicID,
		DateOfJudgment: input.DateOfJudgment,
		Summary:        input.Summary,
		FullText:       input.FullText,
		Region:         input.Region,
		County:         input.County,
		Description:    input.Description,
		DateFiled:      input.DateFiled,
	}

	if err := s.cases.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCaseNotFound
		}
		return err
	}
	return nil
}

func (s *caseService) DeleteCase(ctx context.Context, id int64) error {
	if err := s.cases.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCaseNotFound
		}
		return err
	}
	return nil
}

func (s *caseService) RecordView(ctx context.Context, userID, caseID int64) error {
	if _, err := s.cases.Get(ctx, caseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCaseNotFound
		}
		return err
	}
	return s.history.Record(ctx, userID, caseID)
}

func (s *caseService) RecentHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error) {
	return s.history.ListRecent(ctx, userID, 10)
}

func validateDates(input CaseInput) error {
	for name, value := range map[string]*string{
		"date_filed":       input.DateFiled,
		"date_of_judgment": input.DateOfJudgment,
	} {
		if value == nil || *value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", *value); err != nil {
			return fmt.Errorf("%w: invalid %s, want YYYY-MM-DD", ErrValidation, name)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
