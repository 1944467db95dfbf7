package handler

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/pkg/httpcontext"
	authUC "github.com/taskflow/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Login verifies credentials and returns a token plus the team's current
// dataset so the client can seed its local cache.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondFlat(ctx, transport.LoginResponse{Success: false, Message: "Email and password required"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondFlat(ctx, transport.LoginResponse{Success: false, Message: errorMessage(err)})
		return
	}

	h.respondFlat(ctx, transport.LoginResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User,
		Data:    result.Data,
	})
}

// Register creates an account; managers get a fresh team.
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondFlat(ctx, transport.RegisterResponse{Success: false, Message: "invalid payload"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Register(stdCtx, authUC.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		TeamID:   req.ResolveTeamID(),
	})
	if err != nil {
		h.respondFlat(ctx, transport.RegisterResponse{Success: false, Message: errorMessage(err)})
		return
	}

	h.respondFlat(ctx, transport.RegisterResponse{Success: true, TeamID: result.TeamID})
}

// Logout revokes the supplied session. Unknown sessions are not an error.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	var req transport.LogoutRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, req.SessionID); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	h.respondFlat(ctx, map[string]interface{}{"success": true})
}
