package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	identitydomain "github.com/opensigas/sigas/internal/identity/domain"
)

const signatureHeader = "X-Identity-Signature"

type identityEvent struct {
	Type string `json:"type"`
	User struct {
		Subject string `json:"subject"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	} `json:"user"`
}

// IdentityWebhook mirrors identity-provider user lifecycle events into the
// local user table. The payload is authenticated with an HMAC over the raw
// body.
func (s *Server) IdentityWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if !s.verifyWebhookSignature(body, c.GetHeader(signatureHeader)) {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var event identityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	switch strings.ToLower(strings.TrimSpace(event.Type)) {
	case "user.created", "user.updated":
		user, err := s.identitySvc.Sync(c.Request.Context(), identitydomain.ProviderUser{
			Subject: event.User.Subject,
			Email:   event.User.Email,
			Name:    event.User.Name,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "synced", "user_id": user.ID})
	case "user.deleted":
		if err := s.identitySvc.Remove(c.Request.Context(), event.User.Subject); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	default:
		AbortWithError(c, newValidationError("type", "unknown_event", "unknown event type"))
	}
}

func (s *Server) verifyWebhookSignature(body []byte, signature string) bool {
	secret := s.cfg.IdentityWebhookSecret
	if secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	provided := strings.TrimSpace(strings.TrimPrefix(signature, "sha256="))
	if provided == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}
