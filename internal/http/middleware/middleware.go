// Package middleware provides HTTP middleware for Telegram MiniApp
// authentication and webhook verification.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"trbe_ops_backend/internal/telegram"
	"trbe_ops_backend/platform/httpkit"
	"trbe_ops_backend/platform/logger"
)

const (
	// initDataHeader carries the raw MiniApp initData string.
	initDataHeader = "X-Telegram-Init-Data"
	// webhookSecretHeader is set by the Bot API on webhook deliveries when a
	// secret token was registered with setWebhook.
	webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// TelegramAuth verifies the MiniApp initData signature on every request and
// attaches the operator identity to the gin context. The initData string is
// read from the X-Telegram-Init-Data header, or from an
// "Authorization: tma <initData>" header as a fallback.
func TelegramAuth(botToken string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(initDataHeader)
		if raw == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "tma ") {
				raw = strings.TrimPrefix(auth, "tma ")
			}
		}
		if raw == "" {
			log.AuthEvent("initdata_missing", "", false, "no init data header")
			httpkit.Error(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}

		user, err := telegram.VerifyInitData(raw, botToken, time.Now())
		if err != nil {
			log.AuthEvent("initdata_rejected", "", false, err.Error())
			httpkit.Error(c, http.StatusUnauthorized, "invalid init data", nil)
			c.Abort()
			return
		}

		log.AuthEvent("initdata_verified", user.Username, true, "")
		httpkit.SetIdentity(c, user.ID, user.Username)
		c.Next()
	}
}

// WebhookGuard rejects webhook deliveries whose secret token header does not
// match the configured secret. With an empty secret the guard is a no-op, for
// deployments that rely on an unguessable webhook path instead.
func WebhookGuard(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		got := c.GetHeader(webhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			log.AuthEvent("webhook_rejected", "", false, "secret token mismatch")
			httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
