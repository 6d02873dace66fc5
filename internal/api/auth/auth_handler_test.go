package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string, profile types.UpdateProfileParams) (string, error) {
	args := m.Called(ctx, username, password, profile)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func newTestAuthHandler(service AuthService) (*AuthHandlerImpl, *CaptchaManager) {
	captcha := newTestCaptchaManager()
	return NewAuthHandlerImpl(service, captcha, slog.Default()), captcha
}

// solvedCaptchaRequest builds a request whose captcha session will validate
// against the given answer field in the body.
func solvedCaptchaRequest(captcha *CaptchaManager, target string, body map[string]any) *http.Request {
	sessionID := "handler-test-session"
	captcha.store.Set(sessionID, "7", gocache.DefaultExpiration)
	body["captcha"] = "7"

	payload, _ := json.Marshal(body)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	r.AddCookie(&http.Cookie{Name: captchaCookieName, Value: sessionID})
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	dec := json.NewDecoder(w.Body)
	require.NoError(t, dec.Decode(&env))
	// The body must contain exactly one JSON value. A second decode catching
	// anything but EOF means an error path wrote twice.
	require.Error(t, dec.Decode(&struct{}{}), "response body contains more than one JSON value")
	return env
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		mockService.On("Register", mock.Anything, "newuser", "Passw0rd", types.UpdateProfileParams{}).
			Return("signed-token", nil).Once()

		r := solvedCaptchaRequest(captcha, "/auth/register", map[string]any{
			"username": "newuser",
			"password": "Passw0rd",
		})
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		data, _ := env.Data.(map[string]any)
		assert.Equal(t, "signed-token", data["token"])
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		r := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, api.CodeValidation, env.Error.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CaptchaFailureShortCircuits", func(t *testing.T) {
		// A failed captcha must prevent any credential work.
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		sessionID := "wrong-answer-session"
		captcha.store.Set(sessionID, "7", gocache.DefaultExpiration)
		payload, _ := json.Marshal(map[string]any{
			"username": "newuser",
			"password": "Passw0rd",
			"captcha":  "9",
		})
		r := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(payload))
		r.AddCookie(&http.Cookie{Name: captchaCookieName, Value: sessionID})
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, api.CodeValidation, env.Error.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingCaptchaSession", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		payload, _ := json.Marshal(map[string]any{
			"username": "newuser",
			"password": "Passw0rd",
			"captcha":  "7",
		})
		r := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(payload))
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UsernameConflict", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		mockService.On("Register", mock.Anything, "existing", "Passw0rd", types.UpdateProfileParams{}).
			Return("", api.ErrConflict).Once()

		r := solvedCaptchaRequest(captcha, "/auth/register", map[string]any{
			"username": "existing",
			"password": "Passw0rd",
		})
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, api.CodeAlreadyExists, env.Error.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		mockService.On("Register", mock.Anything, "ab", "Passw0rd", types.UpdateProfileParams{}).
			Return("", api.ErrValidation).Once()

		r := solvedCaptchaRequest(captcha, "/auth/register", map[string]any{
			"username": "ab",
			"password": "Passw0rd",
		})
		w := httptest.NewRecorder()
		handler.Register(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, api.CodeValidation, env.Error.Code)
		mockService.AssertExpectations(t)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		mockService.On("Login", mock.Anything, "testuser", "Passw0rd").
			Return("signed-token", nil).Once()

		r := solvedCaptchaRequest(captcha, "/auth/login", map[string]any{
			"username": "testuser",
			"password": "Passw0rd",
		})
		w := httptest.NewRecorder()
		handler.Login(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		data, _ := env.Data.(map[string]any)
		assert.Equal(t, "signed-token", data["token"])
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, captcha := newTestAuthHandler(mockService)

		mockService.On("Login", mock.Anything, "testuser", "WrongPassw0rd").
			Return("", api.ErrUnauthenticated).Once()

		r := solvedCaptchaRequest(captcha, "/auth/login", map[string]any{
			"username": "testuser",
			"password": "WrongPassw0rd",
		})
		w := httptest.NewRecorder()
		handler.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, api.CodeAuth, env.Error.Code)
		assert.Equal(t, "Invalid username or password", env.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("CaptchaFailureShortCircuits", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler, _ := newTestAuthHandler(mockService)

		payload, _ := json.Marshal(map[string]any{
			"username": "testuser",
			"password": "Passw0rd",
			"captcha":  "7",
		})
		r := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
		w := httptest.NewRecorder()
		handler.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCaptchaHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler, _ := newTestAuthHandler(mockService)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/captcha", nil)
	handler.Captcha(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
