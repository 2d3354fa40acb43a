package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/qa"
)

type qaView struct {
	Questions []qa.Question `json:"questions"`
}

type qaHandlers struct {
	ServerDeps
}

func registerQARoutes(app *echo.Echo, gate echo.MiddlewareFunc, deps ServerDeps) {
	h := qaHandlers{deps}

	g := app.Group("/qa", gate)
	g.GET("", h.list)
	g.POST("/add-question", h.addQuestion)
	g.POST("/add-answer/:id", h.addAnswer)
}

func (h qaHandlers) list(ctx echo.Context) error {
	questions, err := h.QASvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	return render(ctx, http.StatusOK, "qa", qaView{Questions: questions})
}

// addQuestion ignores blank questions.
func (h qaHandlers) addQuestion(ctx echo.Context) error {
	var nq qa.NewQuestion
	if err := ctx.Bind(&nq); err != nil {
		return err
	}
	if err := nq.Validate(h.Validate); err == nil {
		if _, err = h.QASvc.Ask(ctx.Request().Context(), contextUserID(ctx), nq); err != nil {
			return errors.Wrap(err, "asking question")
		}
	}
	return ctx.Redirect(http.StatusFound, "/qa")
}

// addAnswer ignores blank answers and unknown questions.
func (h qaHandlers) addAnswer(ctx echo.Context) error {
	var na qa.NewAnswer
	if err := ctx.Bind(&na); err != nil {
		return err
	}
	if err := na.Validate(h.Validate); err == nil {
		err = h.QASvc.Answer(ctx.Request().Context(), ctx.Param("id"), contextUserID(ctx), na)
		if err != nil && !errors.Is(err, qa.ErrNotFound) {
			return errors.Wrap(err, "answering question")
		}
	}
	return ctx.Redirect(http.StatusFound, "/qa")
}
