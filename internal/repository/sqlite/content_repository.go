package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

const (
	createConstitutionTable = `
CREATE TABLE IF NOT EXISTS constitution (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	article_number TEXT NOT NULL,
	chapter TEXT NOT NULL DEFAULT '',
	part TEXT NOT NULL DEFAULT '',
	text TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT ''
);
`

	createContactTable = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reference TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	submitted_at DATETIME NOT NULL
);
`

	createTeamTable = `
CREATE TABLE IF NOT EXISTS team_members (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT ''
);
`
)

type ConstitutionRepository struct {
	db *sql.DB
}

func NewConstitutionRepository(db *sql.DB) repository.ConstitutionRepository {
	return &ConstitutionRepository{db: db}
}

func (r *ConstitutionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createConstitutionTable); err != nil {
		return fmt.Errorf("create constitution table: %w", err)
	}
	return nil
}

func (r *ConstitutionRepository) List(ctx context.Context) ([]domain.ConstitutionArticle, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, article_number, chapter, part, text
FROM constitution
ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query constitution: %w", err)
	}
	defer rows.Close()

	var articles []domain.ConstitutionArticle
	for rows.Next() {
		var a domain.ConstitutionArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.ArticleNumber, &a.Chapter, &a.Part, &a.Text); err != nil {
			return nil, fmt.Errorf("scan constitution article: %w", err)
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

func (r *ConstitutionRepository) Get(ctx context.Context, id int64) (*domain.ConstitutionArticle, error) {
	var a domain.ConstitutionArticle
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, article_number, chapter, part, text, details
FROM constitution
WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Title, &a.ArticleNumber, &a.Chapter, &a.Part, &a.Text, &a.Details)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("constitution article %d: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan constitution article: %w", err)
	}
	return &a, nil
}

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createContactTable); err != nil {
		return fmt.Errorf("create contact_messages table: %w", err)
	}
	return nil
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (int64, error) {
	msg.SubmittedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO contact_messages (reference, name, email, subject, message, submitted_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		msg.Reference,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
		msg.SubmittedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTeamTable); err != nil {
		return fmt.Errorf("create team_members table: %w", err)
	}
	return nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT name, role, bio, image
FROM team_members
ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query team members: %w", err)
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.Name, &m.Role, &m.Bio, &m.Image); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
