package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/steambap/captcha"

	"github.com/rfcosta/notekeep/config"
)

const captchaCookieName = "captcha_session"

var (
	ErrCaptchaSessionMissing = errors.New("captcha session missing")
	ErrCaptchaExpired        = errors.New("captcha challenge expired or already used")
	ErrCaptchaAnswerMissing  = errors.New("captcha answer missing")
	ErrCaptchaMismatch       = errors.New("captcha answer incorrect")
)

// CaptchaManager issues arithmetic challenges bound to a session cookie and
// validates their single-use answers.
type CaptchaManager struct {
	logger *slog.Logger
	store  *gocache.Cache
	cfg    config.CaptchaConfig
}

func NewCaptchaManager(cfg config.CaptchaConfig, logger *slog.Logger) *CaptchaManager {
	return &CaptchaManager{
		logger: logger,
		store:  gocache.New(cfg.TTL, cfg.TTL),
		cfg:    cfg,
	}
}

// Issue generates a math expression image, stores the expected answer keyed by
// a fresh session id, sets that id as an HttpOnly cookie and writes the PNG.
func (m *CaptchaManager) Issue(w http.ResponseWriter, r *http.Request) error {
	data, err := captcha.NewMathExpr(m.cfg.Width, m.cfg.Height)
	if err != nil {
		return fmt.Errorf("failed to render captcha: %w", err)
	}

	sessionID := uuid.NewString()
	m.store.Set(sessionID, data.Text, gocache.DefaultExpiration)

	http.SetCookie(w, &http.Cookie{
		Name:     captchaCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Content-Type", "image/png")
	return data.WriteImage(w)
}

// Validate checks the submitted answer against the challenge bound to the
// caller's session. On success the challenge is deleted, so a second attempt
// with the same session fails with ErrCaptchaExpired.
func (m *CaptchaManager) Validate(r *http.Request, answer string) error {
	cookie, err := r.Cookie(captchaCookieName)
	if err != nil {
		return ErrCaptchaSessionMissing
	}

	stored, ok := m.store.Get(cookie.Value)
	if !ok {
		return ErrCaptchaExpired
	}

	if strings.TrimSpace(answer) == "" {
		return ErrCaptchaAnswerMissing
	}

	expected, _ := stored.(string)
	if !strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected)) {
		return ErrCaptchaMismatch
	}

	m.store.Delete(cookie.Value)
	return nil
}
