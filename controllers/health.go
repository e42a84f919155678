package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"mapmyissues/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			log.Errorf("health: db.Ping: %v", err)
			utils.Fail(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		utils.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
