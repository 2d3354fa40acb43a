package echoapi

import (
	"html/template"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

// page errors carry the exact text shown to the user; the wrapped error is logged.
func newPageError(code int, text string, err error) *echo.HTTPError {
	return echo.NewHTTPError(code, text).SetInternal(err)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if origErr.Internal != nil {
				logError(ctx, logger, message, origErr.Internal)
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logError(ctx, logger, message, err)

			if ctx.Echo().Debug {
				message = err.Error()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			switch {
			case ctx.Request().Method == http.MethodHead: // Issue #608
				err = ctx.NoContent(code)
			case acceptsJSON(ctx):
				err = ctx.JSON(code, echo.Map{"error": message})
			default:
				err = ctx.HTML(code, template.HTMLEscapeString(message))
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func logError(ctx echo.Context, logger core.Logger, msg string, err error) {
	args := []interface{}{err}
	if body := core.RemoteBody(err); body != "" {
		args = append(args, map[string]interface{}{"lms_response": body})
	}
	if uid := contextUserID(ctx); uid != "" {
		args = append(args, user.User{ID: uid})
	}
	logger.Error(msg, args...)
}

// withFieldErrors attaches the translated field errors to validator errors.
func withFieldErrors(err error, translator ut.Translator) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return core.NewValidationError(err, core.TranslateValidationErrors(vErrs, translator)...)
	}
	return err
}
