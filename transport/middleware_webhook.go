package transport

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/utils/errors"
)

const webhookSignatureHeader = "X-Gateway-Signature"

// maxWebhookBody bounds what we are willing to buffer from the gateway.
const maxWebhookBody = 1 << 20

// WebhookSignatureMiddleware verifies the gateway's HMAC-SHA256 signature
// over the raw body before the handler ever parses it. The body is
// re-attached for the handler.
func WebhookSignatureMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
				return
			}
			_ = r.Body.Close()

			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write(body)
			expected := hex.EncodeToString(mac.Sum(nil))

			provided := r.Header.Get(webhookSignatureHeader)
			if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
