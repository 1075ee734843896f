package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

const (
	createCasesTable = `
CREATE TABLE IF NOT EXISTS cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	case_number TEXT NOT NULL,
	county TEXT NOT NULL DEFAULT '',
	court TEXT NOT NULL DEFAULT '',
	judge TEXT NOT NULL DEFAULT '',
	judge_id INTEGER NULL,
	legal_topic_id INTEGER NULL,
	date_of_judgment TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	full_text TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date_filed TEXT NOT NULL DEFAULT ''
);
`

	caseColumns = `id, title, case_number, county, court, judge, judge_id, legal_topic_id, date_of_judgment, summary, full_text, region, description, date_filed`
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) repository.CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCasesTable); err != nil {
		return fmt.Errorf("create cases table: %w", err)
	}
	return nil
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO cases (title, case_number, county, court, judge, judge_id, legal_topic_id, date_of_judgment, summary, full_text, region, description, date_filed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title,
		c.CaseNumber,
		c.County,
		c.Court,
		c.Judge,
		nullInt64(c.JudgeID),
		nullInt64(c.LegalTopicID),
		c.DateOfJudgment,
		c.Summary,
		c.FullText,
		c.Region,
		c.Description,
		c.DateFiled,
	)
	if err != nil {
		return 0, fmt.Errorf("insert case: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("case last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

func (r *CaseRepository) Get(ctx context.Context, id int64) (*domain.Case, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+caseColumns+`
FROM cases
WHERE id = ?`,
		id,
	)
	return scanCase(row)
}

func (r *CaseRepository) List(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+caseColumns+`
FROM cases`)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()
	return collectCases(rows)
}

func (r *CaseRepository) ListByCounty(ctx context.Context, county string) ([]domain.Case, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+caseColumns+`
FROM cases
WHERE county = ?`,
		county,
	)
	if err != nil {
		return nil, fmt.Errorf("query cases by county: %w", err)
	}
	defer rows.Close()
	return collectCases(rows)
}

func (r *CaseRepository) CountByCounty(ctx context.Context, county string) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases WHERE county = ?`, county).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cases by county: %w", err)
	}
	return count, nil
}

// Search assembles the conjunction of one predicate per supplied filter field.
// Every user value is a bound parameter; LIKE patterns are escaped so wildcard
// metacharacters in the input match literally.
func (r *CaseRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Case, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + caseColumns + ` FROM cases WHERE 1=1`)

	if filter.Query != "" {
		sb.WriteString(` AND (title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\' OR full_text LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		p := likePattern(filter.Query)
		args = append(args, p, p, p, p)
	}
	if filter.CaseTitle != "" {
		sb.WriteString(` AND title LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.CaseTitle))
	}
	if filter.Judge != "" {
		sb.WriteString(` AND judge LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Judge))
	}
	if filter.Date != "" {
		sb.WriteString(` AND (date_filed = ? OR date_of_judgment = ?)`)
		args = append(args, filter.Date, filter.Date)
	}
	if filter.Keywords != "" {
		sb.WriteString(` AND (summary LIKE ? ESCAPE '\' OR full_text LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		p := likePattern(filter.Keywords)
		args = append(args, p, p, p)
	}
	if filter.Region != "" {
		sb.WriteString(` AND region = ?`)
		args = append(args, filter.Region)
	}
	if filter.County != "" {
		sb.WriteString(` AND county = ?`)
		args = append(args, filter.County)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	defer rows.Close()
	return collectCases(rows)
}

// likePattern wraps the value in %...% for a substring match, escaping LIKE
// metacharacters so they are treated as literal input.
func likePattern(value string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(value) + "%"
}

// Update patches the supplied fields; nil fields keep their stored value.
// The statement shape is fixed regardless of which fields are present.
func (r *CaseRepository) Update(ctx context.Context, id int64, u repository.CaseUpdate) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE cases
SET title = COALESCE(?, title),
    case_number = COALESCE(?, case_number),
    county = COALESCE(?, county),
    court = COALESCE(?, court),
    judge = COALESCE(?, judge),
    judge_id = COALESCE(?, judge_id),
    legal_topic_id = COALESCE(?, legal_topic_id),
    date_of_judgment = COALESCE(?, date_of_judgment),
    summary = COALESCE(?, summary),
    full_text = COALESCE(?, full_text),
    region = COALESCE(?, region),
    description = COALESCE(?, description),
    date_filed = COALESCE(?, date_filed)
WHERE id = ?`,
		nullString(u.Title),
		nullString(u.CaseNumber),
		nullString(u.County),
		nullString(u.Court),
		nullString(u.Judge),
		nullInt64(u.JudgeID),
		nullInt64(u.LegalTopicID),
		nullString(u.DateOfJudgment),
		nullString(u.Summary),
		nullString(u.FullText),
		nullString(u.Region),
		nullString(u.Description),
		nullString(u.DateFiled),
		id,
	)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("case update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("case %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *CaseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("case delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("case %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func collectCases(rows *sql.Rows) ([]domain.Case, error) {
	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

func scanCase(scanner interface {
	Scan(dest ...any) error
}) (*domain.Case, error) {
	var (
		c            domain.Case
		judgeID      sql.NullInt64
		legalTopicID sql.NullInt64
	)
	if err := scanner.Scan(
		&c.ID,
		&c.Title,
		&c.CaseNumber,
		&c.County,
		&c.Court,
		&c.Judge,
		&judgeID,
		&legalTopicID,
		&c.DateOfJudgment,
		&c.Summary,
		&c.FullText,
		&c.Region,
		&c.Description,
		&c.DateFiled,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("case: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan case: %w", err)
	}
	if judgeID.Valid {
		c.JudgeID = &judgeID.Int64
	}
	if legalTopicID.Valid {
		c.LegalTopicID = &legalTopicID.Int64
	}
	return &c, nil
}
