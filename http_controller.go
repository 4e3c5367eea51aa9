package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the session endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login.post")

	app.
		Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("auth.logout.post")

	app.
		Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("auth.refresh.post")
}

type AuthControllerRoutes struct {
	Login   string
	Logout  string
	Refresh string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Sessions     SessionFlows
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Login:   "/auth/login",
			Logout:  "/auth/logout",
			Refresh: "/auth/refresh",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Sessions == nil {
		panic("Missing SessionFlows in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerSessions(sessions SessionFlows) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sessions = sessions
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(4, 255),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: ", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody(err.Error()))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	result, err := a.Sessions.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		return a.renderError(ctx, err, fiber.StatusUnauthorized)
	}

	return ctx.JSON(fiber.StatusOK, result)
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	header := ctx.Header(router.HeaderAuthorization)

	if err := a.Sessions.Logout(ctx.Context(), header); err != nil {
		return a.renderError(ctx, err, fiber.StatusBadRequest)
	}

	return ctx.NoContent(fiber.StatusOK)
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	header := ctx.Header(router.HeaderAuthorization)

	result, err := a.Sessions.Refresh(ctx.Context(), header)
	if err != nil {
		return a.renderError(ctx, err, fiber.StatusBadRequest)
	}

	return ctx.JSON(fiber.StatusOK, result)
}

// renderError maps a flow error onto the wire: auth failures keep the
// route's failure status and expose their message, everything else is
// an opaque 500
func (a *AuthController) renderError(ctx router.Context, err error, failureStatus int) error {
	if IsAuthFailure(err) {
		return ctx.Status(failureStatus).JSON(failureStatus, errorBody(FailureMessage(err)))
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody(richErr.Message))
	}

	a.Logger.Error("session flow error: ", "error", err)
	return a.ErrorHandler(ctx, err)
}

func errorBody(message string) map[string]string {
	return map[string]string{
		"message": message,
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(
		fiber.StatusInternalServerError,
		errorBody("Internal server error"),
	)
}
