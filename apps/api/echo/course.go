package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/course"
)

type (
	coursesView struct {
		Courses []course.Course `json:"courses"`
	}

	gradesView struct {
		CourseID int64            `json:"course_id"`
		Grades   []core.GradeItem `json:"grades"`
	}
)

type courseHandlers struct {
	ServerDeps
}

func registerCourseRoutes(app *echo.Echo, gate echo.MiddlewareFunc, deps ServerDeps) {
	h := courseHandlers{deps}

	app.GET("/active-courses", h.activeCourses, gate)
	app.GET("/grades/:courseId", h.grades, gate)
}

func (h courseHandlers) activeCourses(ctx echo.Context) error {
	courses, err := h.CourseSvc.ActiveCourses(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		if errors.Is(err, course.ErrUnauthorized) {
			return ctx.HTML(http.StatusUnauthorized, missingTokenText)
		}
		return newPageError(http.StatusInternalServerError, "Error fetching active courses.", err)
	}
	return render(ctx, http.StatusOK, "courses", coursesView{Courses: courses})
}

func (h courseHandlers) grades(ctx echo.Context) error {
	courseID, err := strconv.ParseInt(ctx.Param("courseId"), 10, 64)
	if err != nil {
		return newPageError(http.StatusInternalServerError, "Error fetching grades.", errors.Wrap(err, "parsing course id"))
	}
	grades, err := h.CourseSvc.Grades(ctx.Request().Context(), contextUserID(ctx), courseID)
	if err != nil {
		if errors.Is(err, course.ErrUnauthorized) {
			return ctx.HTML(http.StatusUnauthorized, missingTokenText)
		}
		return newPageError(http.StatusInternalServerError, "Error fetching grades.", err)
	}
	return render(ctx, http.StatusOK, "grades", gradesView{CourseID: courseID, Grades: grades})
}
