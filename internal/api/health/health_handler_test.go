package health

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("DatabaseUp", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		mockPool.ExpectPing()

		handler := NewHandler(mockPool, slog.Default())
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.Check(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var status Status
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "up", status.DBStatus)
		assert.NotEmpty(t, status.Uptime)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		mockPool.ExpectPing().WillReturnError(errors.New("connection refused"))

		handler := NewHandler(mockPool, slog.Default())
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.Check(w, r)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var status Status
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, "degraded", status.Status)
		assert.Equal(t, "down", status.DBStatus)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
