package inmemdb

import (
	"context"

	"github.com/trezcool/studyhub/core/qa"
)

type questionRepository struct {
	db *questionTable
}

var _ qa.Repository = (*questionRepository)(nil)

func NewQuestionRepository(db *DB) *questionRepository {
	return &questionRepository{db: db.question}
}

func (repo *questionRepository) CreateQuestion(_ context.Context, q qa.Question) (qa.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := q
	stored.Answers = append(qa.Answers{}, q.Answers...)
	repo.db.rows = append(repo.db.rows, &stored)
	return q, nil
}

func (repo *questionRepository) QueryAllQuestions(_ context.Context) ([]qa.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	questions := make([]qa.Question, 0, len(repo.db.rows))
	for _, q := range repo.db.rows {
		cp := *q
		cp.Answers = append(qa.Answers{}, q.Answers...)
		questions = append(questions, cp)
	}
	return questions, nil
}

func (repo *questionRepository) AppendAnswer(_ context.Context, questionID string, ans qa.Answer) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, q := range repo.db.rows {
		if q.ID == questionID {
			q.Answers = append(q.Answers, ans)
			return nil
		}
	}
	return qa.ErrNotFound
}
