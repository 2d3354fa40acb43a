package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/qa"
)

type questionRepository struct {
	db sqlx.ExtContext
}

var _ qa.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db sqlx.ExtContext) *questionRepository {
	return &questionRepository{db: db}
}

func (repo questionRepository) CreateQuestion(ctx context.Context, q qa.Question) (qa.Question, error) {
	query := `INSERT INTO qa_threads (id, author_id, question, created_date, answers)
		VALUES (:id, :author_id, :question, :created_date, :answers)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, query, q); err != nil {
		return qa.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo questionRepository) QueryAllQuestions(ctx context.Context) ([]qa.Question, error) {
	questions := make([]qa.Question, 0)
	query := `SELECT id, author_id, question, created_date, answers FROM qa_threads ORDER BY seq`
	if err := sqlx.SelectContext(ctx, repo.db, &questions, query); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	return questions, nil
}

func (repo questionRepository) AppendAnswer(ctx context.Context, questionID string, ans qa.Answer) error {
	val, err := qa.Answers{ans}.Value()
	if err != nil {
		return err
	}
	query := `UPDATE qa_threads SET answers = answers || $1::jsonb WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, val, questionID)
	if err != nil {
		return errors.Wrap(err, "appending answer")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "appending answer")
	}
	if n == 0 {
		return qa.ErrNotFound
	}
	return nil
}
