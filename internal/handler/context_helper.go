package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/middleware"
	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

// actorFromContext returns the authenticated actor or writes a 401 and reports false.
func actorFromContext(c *gin.Context) (models.IdentityFacts, bool) {
	actor, ok := middleware.Identity(c)
	if !ok || actor.ID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.IdentityFacts{}, false
	}
	return actor, true
}

func bindError(c *gin.Context, err error, message string) {
	response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
}

func recordKindParam(c *gin.Context) (models.RecordKind, bool) {
	kind, ok := models.ParseRecordKind(c.Param("kind"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown record kind"))
		return "", false
	}
	return kind, true
}
