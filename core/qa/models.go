package qa

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyhub/core"
)

// DateLayout is the layout of Question and Answer creation dates.
const DateLayout = "2006-01-02"

// Question is a discussion board thread. Answers are embedded and append-only.
type Question struct {
	ID          string    `json:"id" db:"id"`
	AuthorID    string    `json:"author_id" db:"author_id"`
	Text        string    `json:"question" db:"question"`
	CreatedDate time.Time `json:"date" db:"created_date"` // UTC calendar day
	Answers     Answers   `json:"answers" db:"answers"`
}

type Answer struct {
	AuthorID    string    `json:"author_id"`
	Text        string    `json:"answer"`
	CreatedDate time.Time `json:"date"`
}

// Answers is the ordered sequence of answers of a Question.
type Answers []Answer

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewQuestion contains information needed to post a Question.
type NewQuestion struct {
	Text string `form:"question" validate:"required,notblank"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Text = core.CleanString(nq.Text)
	return validate.Struct(nq)
}

// NewAnswer contains information needed to answer a Question.
type NewAnswer struct {
	Text string `form:"answer" validate:"required,notblank"`
}

func (na *NewAnswer) Validate(validate *validator.Validate) error {
	na.Text = core.CleanString(na.Text)
	return validate.Struct(na)
}
