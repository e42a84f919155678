package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapmyissues/models"
	"mapmyissues/services"
	"mapmyissues/utils"
)

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	account, err := ac.sessions.Register(c.Request.Context(), req)
	if errors.Is(err, models.ErrConflict) {
		utils.Fail(c, http.StatusBadRequest, "Username or email already exists")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, http.StatusCreated, "Register successful", account)
}
