package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	middlewares "mapmyissues/middleware"
	"mapmyissues/utils"
)

type logoutRequest struct {
	Username string `json:"username"`
}

// Logout closes the latest open login of the session user, or of the
// username in the body when no session token is sent.
func (ac *AuthController) Logout(c *gin.Context) {
	username := ""
	if user, ok := middlewares.SessionFrom(c); ok {
		username = user.Username
	} else {
		var req logoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, err)
			return
		}
		username = req.Username
	}

	closed, err := ac.sessions.Logout(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.setTokenCookie(c, "", -1)

	utils.SuccessMessage(c, http.StatusOK, "Logout successful", gin.H{"closed": closed})
}
