package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

type userService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context, page dto.Pagination) (*dto.Page[dto.UserResponse], error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64) error
	GetAccount(ctx context.Context, email string) (*dto.AccountResponse, error)
	UpdateAccount(ctx context.Context, email string, req dto.UpdateAccountRequest) (*dto.AccountResponse, error)
}

type UserHandler struct {
	svc   userService
	pages pager
	errs  errorWriter
}

func NewUserHandler(svc userService, maxPageSize int, log *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, pages: pager{maxSize: maxPageSize}, errs: errorWriter{log: log}}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if _, err := h.svc.CreateUser(c.Request.Context(), req); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *UserHandler) List(c *gin.Context) {
	page, ok := h.pages.required(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "required"}})
		return
	}
	resp, err := h.svc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetAccount(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetAccount(c.Request.Context(), identity.Email)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.svc.UpdateAccount(c.Request.Context(), identity.Email, req)
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
