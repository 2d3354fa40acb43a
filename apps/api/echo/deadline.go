package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/deadline"
)

const missingTokenText = "Unauthorized: LMS token missing."

type deadlinesView struct {
	Deadlines []deadline.Deadline `json:"deadlines"`
}

type deadlineHandlers struct {
	ServerDeps
}

func registerDeadlineRoutes(app *echo.Echo, gate echo.MiddlewareFunc, deps ServerDeps) {
	h := deadlineHandlers{deps}

	app.GET("/deadlines", h.sync, gate)
	app.GET("/deadlines/view", h.list, gate)
}

func (h deadlineHandlers) sync(ctx echo.Context) error {
	res, err := h.SyncSvc.SyncDeadlines(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		if errors.Is(err, deadline.ErrUnauthorized) {
			return ctx.HTML(http.StatusUnauthorized, missingTokenText)
		}
		return newPageError(http.StatusInternalServerError, "Error syncing deadlines.", err)
	}
	h.Logger.Debug("deadlines synchronized", map[string]interface{}{
		"user_id":  contextUserID(ctx),
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	})
	return ctx.Redirect(http.StatusFound, "/deadlines/view")
}

func (h deadlineHandlers) list(ctx echo.Context) error {
	deadlines, err := h.DeadlineSvc.Upcoming(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return newPageError(http.StatusInternalServerError, "Error loading deadlines.", err)
	}
	return render(ctx, http.StatusOK, "deadlines", deadlinesView{Deadlines: deadlines})
}
