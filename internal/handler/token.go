package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghhamo/lootsy/internal/dto"
)

type tokenIssuer interface {
	Login(ctx context.Context, authorization string) (*dto.TokenResponse, error)
}

type TokenHandler struct {
	svc tokenIssuer
	errs errorWriter
}

func NewTokenHandler(svc tokenIssuer, log *slog.Logger) *TokenHandler {
	return &TokenHandler{svc: svc, errs: errorWriter{log: log}}
}

// Issue exchanges a Basic authorization header for a signed token.
func (h *TokenHandler) Issue(c *gin.Context) {
	resp, err := h.svc.Login(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
