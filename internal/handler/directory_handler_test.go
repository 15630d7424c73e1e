package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
)

type directoryServiceStub struct {
	entries []service.DirectoryEntry
	err     error
}

func (s *directoryServiceStub) Assignees(context.Context) ([]service.DirectoryEntry, error) {
	return s.entries, s.err
}

func TestDirectoryHandlerAssignees(t *testing.T) {
	svc := &directoryServiceStub{entries: []service.DirectoryEntry{
		{ID: "t1", Name: "Tom Staff", Email: "tom@school.test", Role: models.RoleStaff},
	}}
	router := newTestRouter(superClaims, http.MethodGet, "/users/assignees", NewDirectoryHandler(svc).Assignees)

	rec := serve(router, http.MethodGet, "/users/assignees", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []service.DirectoryEntry
	env := decodeData(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].ID)
	assert.EqualValues(t, 1, env.Meta["count"])

	svc.err = errors.New("db down")
	rec = serve(router, http.MethodGet, "/users/assignees", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
