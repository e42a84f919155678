package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	middlewares "mapmyissues/middleware"
	"mapmyissues/models"
	"mapmyissues/services"
	"mapmyissues/utils"
)

type AuthController struct {
	sessions     *services.SessionService
	secret       []byte
	secureCookie bool
}

func NewAuthController(sessions *services.SessionService, secret []byte, secureCookie bool) *AuthController {
	return &AuthController{
		sessions:     sessions,
		secret:       secret,
		secureCookie: secureCookie,
	}
}

func (ac *AuthController) setTokenCookie(c *gin.Context, token string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if ac.secureCookie {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   ac.secureCookie,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// Login records the login and returns a session token, also set as a cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	entry, user, err := ac.sessions.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	ttl := ac.sessions.TTL()
	token, err := utils.GenerateToken(ac.secret, user, ttl, entry.Timestamp)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.setTokenCookie(c, token, int(ttl/time.Second))

	utils.SuccessMessage(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
		"login": entry,
	})
}

// Session returns the caller's open login entry.
func (ac *AuthController) Session(c *gin.Context) {
	user := session(c)

	entry, err := ac.sessions.ActiveSession(c.Request.Context(), user.Username)
	if errors.Is(err, models.ErrNotFound) {
		utils.Fail(c, http.StatusNotFound, "No active session")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"login": entry,
	})
}
