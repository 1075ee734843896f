package domain

import "time"

// Case is a single case-law record. Dates are kept as YYYY-MM-DD strings so
// that exact-match filtering behaves the same as the stored representation.
type Case struct {
	ID             int64
	Title          string
	CaseNumber     string
	County         string
	Court          string
	Judge          string
	JudgeID        *int64
	LegalTopicID   *int64
	DateOfJudgment string
	Summary        string
	FullText       string
	Region         string
	Description    string
	DateFiled      string
}

// SearchFilter is the request-scoped conjunction of optional case predicates.
// Empty fields contribute no predicate; an empty filter matches every case.
type SearchFilter struct {
	Query     string
	CaseTitle string
	Judge     string
	Date      string
	Keywords  string
	Region    string
	County    string
}

// IsZero reports whether no predicate was supplied.
func (f SearchFilter) IsZero() bool {
	return f == SearchFilter{}
}

// HistoryEntry records that a user viewed a case.
type HistoryEntry struct {
	UserID     int64
	CaseID     int64
	CaseTitle  string
	CaseNumber string
	County     string
	ViewedAt   time.Time
}

// ConstitutionArticle is one section of the constitution text.
type ConstitutionArticle struct {
	ID            int64
	Title         string
	ArticleNumber string
	Chapter       string
	Part          string
	Text          string
	Details       string
}

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	ID          int64
	Reference   string
	Name        string
	Email       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

// TeamMember is a person shown on the about page.
type TeamMember struct {
	Name  string
	Role  string
	Bio   string
	Image string
}
