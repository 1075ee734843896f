package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"caselaw-kenya/internal/domain"
	"caselaw-kenya/internal/repository"
)

// ErrArticleNotFound is returned when a constitution lookup targets a missing article.
var ErrArticleNotFound = errors.New("article not found")

// ContentService serves constitution text, team listings and the contact form.
type ContentService interface {
	Constitution(ctx context.Context) ([]domain.ConstitutionArticle, error)
	ConstitutionArticle(ctx context.Context, id int64) (*domain.ConstitutionArticle, error)
	TeamMembers(ctx context.Context) ([]domain.TeamMember, error)
	SubmitContact(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error)
}

type contentService struct {
	constitution repository.ConstitutionRepository
	contacts     repository.ContactRepository
	team         repository.TeamRepository
}

func NewContentService(
	constitution repository.ConstitutionRepository,
	contacts repository.ContactRepository,
	team repository.TeamRepository,
) ContentService {
	return &contentService{
		constitution: constitution,
		contacts:     contacts,
		team:         team,
	}
}

func (s *contentService) Constitution(ctx context.Context) ([]domain.ConstitutionArticle, error) {
	return s.constitution.List(ctx)
}

func (s *contentService) ConstitutionArticle(ctx context.Context, id int64) (*domain.ConstitutionArticle, error) {
	article, err := s.constitution.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *contentService) TeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	return s.team.List(ctx)
}

func (s *contentService) SubmitContact(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	name = strings.TrimSpace(name)
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if name == "" || email == "" || subject == "" || message == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: valid email is required", ErrValidation)
	}

	msg := &domain.ContactMessage{
		Reference: uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Message:   message,
	}

	if _, err := s.contacts.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
