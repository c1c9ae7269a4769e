package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/internal/store"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
)

func addBoatRoutes(router gin.IRouter, repo store.Repository, cascade bool) {
	router.GET("/boats", getBoats(repo))
	router.GET("/boats/:id", getBoat(repo))
	router.POST("/boats", createBoat(repo))
	router.PATCH("/boats/:id", replaceBoat(repo))
	router.DELETE("/boats/:id", deleteBoat(repo, cascade))
}

// lookupBoat loads the boat named by the :id param, answering 404 with msg
// when there is none. ok is false once a response has been written.
func lookupBoat(c *gin.Context, repo store.BoatStore, param, msg string) (*types.Boat, bool) {
	id, ok := parseID(c, param)
	if !ok {
		respondError(c, http.StatusNotFound, msg)
		return nil, false
	}

	boat, err := repo.GetBoat(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, msg)
		return nil, false
	case err != nil:
		storeFailure(c, err)
		return nil, false
	}
	return boat, true
}

func getBoats(repo store.BoatStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		boats, err := repo.ListBoats(c.Request.Context())
		if err != nil {
			storeFailure(c, err)
			return
		}

		if boats == nil {
			boats = []types.Boat{}
		}
		c.JSON(http.StatusOK, boats)
	}
}

func getBoat(repo store.BoatStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		boat, ok := lookupBoat(c, repo, "id", msgNoBoat)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, boat)
	}
}

func createBoat(repo store.BoatStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.BoatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logging.FromContext(c).Debug("invalid boat", zap.Error(err))
			respondError(c, http.StatusBadRequest, msgMissingBoatAttrs)
			return
		}

		boat := req.Boat()
		if err := repo.CreateBoat(c.Request.Context(), &boat); err != nil {
			storeFailure(c, err)
			return
		}
		c.JSON(http.StatusCreated, boat)
	}
}

// replaceBoat overwrites name, type and length. Existence is checked before
// the body so an unknown id is a 404 even with a bad body.
func replaceBoat(repo store.BoatStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		existing, ok := lookupBoat(c, repo, "id", msgNoBoat)
		if !ok {
			return
		}

		var req types.BoatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logging.FromContext(c).Debug("invalid boat", zap.Error(err))
			respondError(c, http.StatusBadRequest, msgMissingBoatAttrs)
			return
		}

		boat := req.Boat()
		boat.ID = existing.ID
		switch err := repo.SaveBoat(c.Request.Context(), &boat); {
		case errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusNotFound, msgNoBoat)
			return
		case err != nil:
			storeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, boat)
	}
}

// deleteBoat removes the boat. Slips holding it keep their current_boat
// unless cascade is set.
func deleteBoat(repo store.Repository, cascade bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		boat, ok := lookupBoat(c, repo, "id", msgNoBoat)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if cascade {
			if err := repo.ClearBoatFromSlips(ctx, boat.ID); err != nil {
				storeFailure(c, err)
				return
			}
		}

		switch err := repo.DeleteBoat(ctx, boat.ID); {
		case errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusNotFound, msgNoBoat)
			return
		case err != nil:
			storeFailure(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
