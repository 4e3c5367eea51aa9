package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RegisterUserRoutes mounts the account management endpoints
func RegisterUserRoutes[T any](app router.Router[T], opts ...UsersControllerOption) {

	controller := NewUsersController(opts...)

	base := controller.Routes.Base
	item := fmt.Sprintf("%s/:id", base)

	app.Get(base, controller.List).SetName("users.list")
	app.Get(item, controller.Show).SetName("users.show")
	app.Post(base, controller.Create).SetName("users.create")
	app.Put(item, controller.Update).SetName("users.update")
	app.Delete(item, controller.Delete).SetName("users.delete")
}

type UsersControllerRoutes struct {
	Base string
}

type UsersController struct {
	Logger       Logger
	Repo         RepositoryManager
	Routes       *UsersControllerRoutes
	ErrorHandler router.ErrorHandler
}

type UsersControllerOption func(*UsersController) *UsersController

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &UsersControllerRoutes{
			Base: "/users",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	return c
}

func WithUsersRepo(repo RepositoryManager) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Repo = repo
		return c
	}
}

func WithUsersLogger(logger Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithUsersRoutes(routes *UsersControllerRoutes) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

// UserResponse is the public account shape, no password ever
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// PagedResponse wraps a page of results with its position in the set
type PagedResponse struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalItems int            `json:"totalItems"`
	Items      []UserResponse `json:"items"`
}

func newUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (a *UsersController) List(ctx router.Context) error {
	page := ctx.QueryInt("page", 1)
	pageSize := ctx.QueryInt("pageSize", 10)

	records, total, err := a.Repo.Users().List(ctx.Context(), page, pageSize)
	if err != nil {
		a.Logger.Error("users list error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	items := make([]UserResponse, 0, len(records))
	for _, record := range records {
		items = append(items, newUserResponse(record))
	}

	return ctx.JSON(fiber.StatusOK, PagedResponse{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		Items:      items,
	})
}

func (a *UsersController) Show(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Invalid user id"))
	}

	record, err := a.Repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ctx.NoContent(fiber.StatusNotFound)
		}
		a.Logger.Error("users show error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, newUserResponse(record))
}

// CreateUserRequest payload
type CreateUserRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(4, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(4, 255)),
	)
}

func (a *UsersController) Create(ctx router.Context) error {
	payload := new(CreateUserRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("users create parse payload: ", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody(err.Error()))
	}

	record, err := a.Repo.Users().Create(ctx.Context(), &User{
		Username: payload.Username,
		Password: payload.Password,
	})

	if err != nil {
		if IsConflict(err) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.StatusConflict, errorBody(FailureMessage(err)))
		}
		a.Logger.Error("users create error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, newUserResponse(record))
}

// UpdateUserRequest payload, empty fields keep their stored value
type UpdateUserRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(4, 255)),
		validation.Field(&r.Password, validation.Length(4, 255)),
	)
}

func (a *UsersController) Update(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Invalid user id"))
	}

	payload := new(UpdateUserRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("users update parse payload: ", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Failed to parse body"))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody(err.Error()))
	}

	record, err := a.Repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ctx.NoContent(fiber.StatusNotFound)
		}
		a.Logger.Error("users update lookup error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if payload.Username != "" {
		record.Username = payload.Username
	}

	if payload.Password != "" {
		record.Password = payload.Password
	}

	updated, err := a.Repo.Users().Update(ctx.Context(), record)
	if err != nil {
		if IsConflict(err) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.StatusConflict, errorBody(FailureMessage(err)))
		}
		a.Logger.Error("users update error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, newUserResponse(updated))
}

func (a *UsersController) Delete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.StatusBadRequest, errorBody("Invalid user id"))
	}

	record, err := a.Repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ctx.NoContent(fiber.StatusNotFound)
		}
		a.Logger.Error("users delete lookup error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := a.Repo.Users().Delete(ctx.Context(), record); err != nil {
		a.Logger.Error("users delete error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(fiber.StatusNoContent)
}
