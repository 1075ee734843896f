package repository

import (
	"context"

	"caselaw-kenya/internal/domain"
)

// ConstitutionRepository reads constitution articles.
type ConstitutionRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.ConstitutionArticle, error)
	Get(ctx context.Context, id int64) (*domain.ConstitutionArticle, error)
}

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, msg *domain.ContactMessage) (int64, error)
}

// TeamRepository reads team members shown on the about page.
type TeamRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context) ([]domain.TeamMember, error)
}
