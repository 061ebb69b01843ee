package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"commentId", "comment ID"},
		{"userId", "user ID"},
		{"parentCommentId", "parent comment ID"},
		{"slug", "slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeParam(tt.param))
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	s := &Server{}
	app := fiber.New()
	app.Get("/posts/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	t.Run("valid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/42", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/abc", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, models.ErrCodeValidation, body.Code)
		assert.Equal(t, "Invalid ID", body.Error)
	})

	t.Run("zero id is a 400", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/0", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestParseThreadPage(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var got ThreadPage
	app.Get("/c", func(c *fiber.Ctx) error {
		got = parseThreadPage(c)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/c?page=3&limit=10", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 10, got.Limit)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/c", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, service.DefaultPageLimit, got.Limit)
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation maps to 400", models.NewValidationError("bad"), http.StatusBadRequest, models.ErrCodeValidation},
		{"not found maps to 404", models.NewNotFoundError("Comment", 1), http.StatusNotFound, models.ErrCodeNotFound},
		{"forbidden maps to 403", models.NewForbiddenError("no"), http.StatusForbidden, models.ErrCodeForbidden},
		{"unknown maps to opaque 500", errors.New("pg: connection refused"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error {
				return respondServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
