package handlers

import (
	"errors"
	"net/http"

	"github.com/gartstein/guardroster/internal/console/apiclient"
	"github.com/gartstein/guardroster/internal/console/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	loginSucceeded   = "Login successful!"
	loginRejected    = "Invalid email or password"
	loginUnavailable = "Login failed. Please try again."
)

type loginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, http.StatusBadRequest, req.Email, loginRejected)
		return
	}

	ok, err := h.session.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login request failed", zap.String("email", req.Email), zap.Error(err))
		msg := loginUnavailable
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		h.loginFailed(c, statusFor(err), req.Email, msg)
		return
	}
	if !ok {
		h.loginFailed(c, http.StatusUnauthorized, req.Email, loginRejected)
		return
	}

	token, err := auth.GenerateToken(req.Email, h.cfg.Secret, h.cfg.SessionTTL)
	if err != nil {
		h.logger.Error("failed to sign console session", zap.Error(err))
		h.loginFailed(c, http.StatusInternalServerError, req.Email, loginUnavailable)
		return
	}
	auth.SetCookie(c, token, h.cfg.SessionTTL)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": loginSucceeded, "user": h.session.User()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) loginFailed(c *gin.Context, code int, email, msg string) {
	if wantsJSON(c) {
		c.JSON(code, gin.H{"success": false, "message": msg})
		return
	}
	c.HTML(code, "login", gin.H{"Email": email, "Message": msg})
}

func (h *Handler) logout(c *gin.Context) {
	h.session.Logout(c.Request.Context())
	auth.ClearCookie(c)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
}
