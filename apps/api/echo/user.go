package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/user"
)

const invalidCredentialsText = "Invalid username or password. <a href='/login'>Try again</a>"

// LoginRequest holds the login form.
type LoginRequest struct {
	Username string `form:"username" validate:"required,notblank"`
	Password string `form:"password" validate:"required"`
}

type homeView struct {
	User user.User `json:"user"`
}

type userHandlers struct {
	ServerDeps
	sessions sessionManager
}

func registerUserRoutes(app *echo.Echo, gate echo.MiddlewareFunc, deps ServerDeps, sessions sessionManager) {
	h := userHandlers{ServerDeps: deps, sessions: sessions}

	app.GET("/", h.index)
	app.GET("/register", h.registerForm)
	app.POST("/register", h.register)
	app.GET("/login", h.loginForm)
	app.POST("/login", h.login)
	app.GET("/logout", h.logout)
	app.GET("/home", h.home, gate)
}

func (h userHandlers) index(ctx echo.Context) error {
	return ctx.Redirect(http.StatusFound, "/login")
}

func (h userHandlers) registerForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "register", echo.Map{})
}

func (h userHandlers) register(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return newPageError(http.StatusInternalServerError, "Error registering user.", err)
	}
	if err := nu.Validate(h.Validate); err != nil {
		return newPageError(http.StatusInternalServerError, "Error registering user.", withFieldErrors(err, h.Translator))
	}
	if _, err := h.UserSvc.Register(ctx.Request().Context(), nu); err != nil {
		return newPageError(http.StatusInternalServerError, "Error registering user.", err)
	}
	return ctx.Redirect(http.StatusFound, "/login")
}

func (h userHandlers) loginForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "login", echo.Map{})
}

func (h userHandlers) login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.HTML(http.StatusOK, invalidCredentialsText)
	}
	if err := h.Validate.Struct(req); err != nil {
		return ctx.HTML(http.StatusOK, invalidCredentialsText)
	}

	usr, err := h.UserSvc.Authenticate(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return ctx.HTML(http.StatusOK, invalidCredentialsText)
		}
		return newPageError(http.StatusInternalServerError, "Login error.", err)
	}
	if err = h.sessions.issue(ctx, usr.ID); err != nil {
		return newPageError(http.StatusInternalServerError, "Login error.", err)
	}
	return ctx.Redirect(http.StatusFound, "/home")
}

func (h userHandlers) logout(ctx echo.Context) error {
	h.sessions.clear(ctx)
	return ctx.Redirect(http.StatusFound, "/login")
}

func (h userHandlers) home(ctx echo.Context) error {
	usr, err := h.UserSvc.GetByID(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) { // account gone: drop the stale session
			h.sessions.clear(ctx)
			return ctx.Redirect(http.StatusFound, "/login")
		}
		return errors.Wrap(err, "finding user by ID")
	}
	return render(ctx, http.StatusOK, "home", homeView{User: usr})
}
