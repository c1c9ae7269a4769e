package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zeroshade/marinaapi/internal/logging"
	"go.uber.org/zap"
)

const (
	msgMissingBoatAttrs = "The request object is missing at least one of the required attributes"
	msgMissingNumber    = "The request object is missing the required number"
	msgNoBoat           = "No boat with this boat_id exists"
	msgNoSlip           = "No slip with this slip_id exists"
	msgNoBoatOrSlip     = "The specified boat and/or slip does not exist"
	msgSlipNotEmpty     = "The slip is not empty"
	msgBoatNotAtSlip    = "No boat with this boat_id is at the slip with this slip_id"
	msgInternal         = "Internal server error"
)

// respondError ends the request with the {"Error": msg} body every failure uses
func respondError(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"Error": msg})
}

func storeFailure(c *gin.Context, err error) {
	logging.FromContext(c).Error("store failure",
		zap.String("route", c.FullPath()),
		zap.Error(err))
	respondError(c, http.StatusInternalServerError, msgInternal)
}

// parseID reads an integer key from the path. Anything else can never name a
// stored entity.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
