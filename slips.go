package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/internal/metrics"
	"github.com/zeroshade/marinaapi/internal/store"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
)

func addSlipRoutes(router gin.IRouter, repo store.Repository, m *metrics.Metrics) {
	router.GET("/slips", getSlips(repo))
	router.GET("/slips/:id", getSlip(repo))
	router.POST("/slips", createSlip(repo))
	router.DELETE("/slips/:id", emptySlip(repo))
	router.PUT("/slips/:id/:bid", assignSlip(repo, m))
	router.DELETE("/slips/:id/:bid", releaseSlip(repo, m))
}

func lookupSlip(c *gin.Context, repo store.SlipStore, param, msg string) (*types.Slip, bool) {
	id, ok := parseID(c, param)
	if !ok {
		respondError(c, http.StatusNotFound, msg)
		return nil, false
	}

	slip, err := repo.GetSlip(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, msg)
		return nil, false
	case err != nil:
		storeFailure(c, err)
		return nil, false
	}
	return slip, true
}

func getSlips(repo store.SlipStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		slips, err := repo.ListSlips(c.Request.Context())
		if err != nil {
			storeFailure(c, err)
			return
		}

		if slips == nil {
			slips = []types.Slip{}
		}
		c.JSON(http.StatusOK, slips)
	}
}

func getSlip(repo store.SlipStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		slip, ok := lookupSlip(c, repo, "id", msgNoSlip)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, slip)
	}
}

func createSlip(repo store.SlipStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SlipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logging.FromContext(c).Debug("invalid slip", zap.Error(err))
			respondError(c, http.StatusBadRequest, msgMissingNumber)
			return
		}

		slip := req.Slip()
		if err := repo.CreateSlip(c.Request.Context(), &slip); err != nil {
			storeFailure(c, err)
			return
		}
		c.JSON(http.StatusCreated, slip)
	}
}

// emptySlip answers DELETE /slips/:id. The slip record is kept; only its
// current boat is cleared.
func emptySlip(repo store.SlipStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		slip, ok := lookupSlip(c, repo, "id", msgNoSlip)
		if !ok {
			return
		}

		switch err := repo.ClearSlip(c.Request.Context(), slip.ID); {
		case errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusNotFound, msgNoSlip)
			return
		case err != nil:
			storeFailure(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// assignSlip moors boat :bid at slip :id. The slip is looked up before the
// boat, and occupancy is only checked once both exist. The final write is
// conditional on the slip still being empty, so a concurrent assign that
// wins the race turns this one into a 403.
func assignSlip(repo store.Repository, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		slip, ok := lookupSlip(c, repo, "id", msgNoBoatOrSlip)
		if !ok {
			return
		}
		boat, ok := lookupBoat(c, repo, "bid", msgNoBoatOrSlip)
		if !ok {
			return
		}

		if slip.Occupied() {
			m.SlipAssignment(metrics.Occupied)
			respondError(c, http.StatusForbidden, msgSlipNotEmpty)
			return
		}

		switch err := repo.AssignSlip(c.Request.Context(), slip.ID, boat.ID); {
		case errors.Is(err, store.ErrConflict):
			m.SlipAssignment(metrics.Occupied)
			respondError(c, http.StatusForbidden, msgSlipNotEmpty)
			return
		case errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusNotFound, msgNoBoatOrSlip)
			return
		case err != nil:
			storeFailure(c, err)
			return
		}

		m.SlipAssignment(metrics.Assigned)
		c.Status(http.StatusNoContent)
	}
}

// releaseSlip removes boat :bid from slip :id. A missing slip, a missing
// boat and a boat moored elsewhere all get the same 404.
func releaseSlip(repo store.Repository, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		slip, ok := lookupSlip(c, repo, "id", msgBoatNotAtSlip)
		if !ok {
			return
		}
		boat, ok := lookupBoat(c, repo, "bid", msgBoatNotAtSlip)
		if !ok {
			return
		}

		if !slip.Holds(boat.ID) {
			m.SlipAssignment(metrics.NotAtSlip)
			respondError(c, http.StatusNotFound, msgBoatNotAtSlip)
			return
		}

		switch err := repo.ReleaseSlip(c.Request.Context(), slip.ID, boat.ID); {
		case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
			m.SlipAssignment(metrics.NotAtSlip)
			respondError(c, http.StatusNotFound, msgBoatNotAtSlip)
			return
		case err != nil:
			storeFailure(c, err)
			return
		}

		m.SlipAssignment(metrics.Released)
		c.Status(http.StatusNoContent)
	}
}
