package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateClerk(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
		"username": "clerk2",
		"password": "secretpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	out := struct {
		Name   string `json:"name"`
		Role   string `json:"role"`
		Active bool   `json:"active"`
	}{}
	decodeBody(t, rec, &out)
	assert.Equal(t, "clerk2", out.Name)
	assert.Equal(t, "CLERK", out.Role)
	assert.True(t, out.Active)
	assert.NotContains(t, rec.Body.String(), "secretpass")
}

func TestUserCreateClerkDuplicate(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
		"username": "clerk2",
		"password": "secretpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
		"username": "clerk2",
		"password": "otherpass1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserCreateClerkValidation(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "secretpass"},
		{"short password", "clerk2", "short"},
		{"non alphanumeric username", "clerk 2", "secretpass"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
				"username": tc.username,
				"password": tc.password,
			})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUserClerkEndpointsForbiddenForClerk(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/clerk", clerkToken, map[string]string{
		"username": "clerk2",
		"password": "secretpass",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/users/clerks", clerkToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserListClerks(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
		"username": "clerk2",
		"password": "secretpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/users/clerks", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := []struct {
		Name string `json:"name"`
	}{}
	decodeBody(t, rec, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "clerk2", out[0].Name)
}

func TestUserDisableClerk(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/clerk", managerToken, map[string]string{
		"username": "clerk2",
		"password": "secretpass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/users/clerks/clerk2/disable", managerToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/users/clerks/missing/disable", managerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
