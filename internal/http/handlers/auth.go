package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type AuthHandler struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), auth: auth}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Me(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// POST /auth/logout
// Tokens are stateless, so this only acknowledges the client discarding its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, response.MessageEnvelope{Message: services.LogoutMessage})
}
