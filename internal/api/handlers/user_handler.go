// server/internal/api/handlers/user_handler.go
package handlers

import (
	"errors"
	"net/http"

	"lmis-mock-server/internal/auth"
	"lmis-mock-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the OAuth2 token endpoints and the user directory.
type UserHandler struct {
	Auth   *auth.Service
	Logger *zap.Logger
}

// TokenRequest accepts both form and JSON encodings.
type TokenRequest struct {
	GrantType string `form:"grant_type" json:"grant_type"`
	Username  string `form:"username" json:"username"`
	Password  string `form:"password" json:"password"`
}

type CheckTokenRequest struct {
	Token string `form:"token" json:"token"`
}

// Token issues an access token for the password grant.
func (h *UserHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
		return
	}
	// OpenLMIS clients also send credentials as query parameters.
	if req.Username == "" {
		req.Username = c.Query("username")
		req.Password = c.Query("password")
	}

	token, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.Logger.Warn("token request rejected", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_grant", "error_description": "Bad credentials"})
			return
		}
		respondError(c, err)
		return
	}

	h.Logger.Info("access token issued", zap.String("username", req.Username))
	c.JSON(http.StatusOK, token)
}

func (h *UserHandler) CheckToken(c *gin.Context) {
	var req CheckTokenRequest
	_ = c.ShouldBind(&req)
	if req.Token == "" {
		req.Token = c.Query("token")
	}

	identity, err := h.Auth.Resolve(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_name":           identity.Username,
		"referenceDataUserId": identity.UserID,
		"authorities":         []string{identity.Role},
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users := h.Auth.Users()
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Auth.User(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
