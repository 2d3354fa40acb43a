package qa

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("question not found")

type (
	Repository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		// QueryAllQuestions returns every Question, oldest first.
		QueryAllQuestions(ctx context.Context) ([]Question, error)
		// AppendAnswer appends ans to the Question; it returns ErrNotFound when there is no such Question.
		AppendAnswer(ctx context.Context, questionID string, ans Answer) error
	}

	Service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Question, error) {
	return svc.repo.QueryAllQuestions(ctx)
}

func (svc *Service) Ask(ctx context.Context, authorID string, nq NewQuestion) (Question, error) {
	q := Question{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Text:        nq.Text,
		CreatedDate: Day(svc.nowFunc()),
		Answers:     Answers{},
	}
	return svc.repo.CreateQuestion(ctx, q)
}

// Answer appends an Answer to the Question identified by questionID.
func (svc *Service) Answer(ctx context.Context, questionID, authorID string, na NewAnswer) error {
	if _, err := uuid.Parse(questionID); err != nil {
		return ErrNotFound
	}
	ans := Answer{
		AuthorID:    authorID,
		Text:        na.Text,
		CreatedDate: Day(svc.nowFunc()),
	}
	return svc.repo.AppendAnswer(ctx, questionID, ans)
}
