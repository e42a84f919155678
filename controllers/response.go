package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"mapmyissues/models"
	"mapmyissues/utils"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognised is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		utils.FailWithErrors(c, http.StatusBadRequest, "Validation failed", verr.Errors)
	case errors.Is(err, models.ErrNotFound):
		utils.Fail(c, http.StatusNotFound, "Issue not found")
	case errors.Is(err, models.ErrDuplicateVote):
		utils.Fail(c, http.StatusBadRequest, "You have already voted on this issue")
	case errors.Is(err, models.ErrConflict):
		utils.Fail(c, http.StatusBadRequest, "Issue was changed by someone else, reload and try again")
	case errors.Is(err, models.ErrForbidden):
		utils.Fail(c, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, models.ErrUnauthorized):
		utils.Fail(c, http.StatusUnauthorized, "Unauthorized")
	default:
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Errorf("upstream error: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Something went wrong, please try again later")
	}
}

func invalidInput(c *gin.Context, err error) {
	utils.FailWithErrors(c, http.StatusBadRequest, "Invalid input", []string{err.Error()})
}
