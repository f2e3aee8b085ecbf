package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticketpass/internal/status"
	"ticketpass/internal/webhook"
	"ticketpass/monitoring"
	"ticketpass/security"
)

// maxBodyBytes bounds the raw payload read; gateway notifications are tiny.
const maxBodyBytes = 64 << 10

// RateLimiter admits or rejects a request for a source IP.
type RateLimiter interface {
	Allow(ctx context.Context, ip string) (bool, error)
}

// WebhookHandler is the transport boundary of the pipeline: origin filter,
// rate limit and signature run here against the raw request before any
// parsing, and the response codes follow the gateway contract (a 200 is the
// only thing that stops its retries).
type WebhookHandler struct {
	pipeline *webhook.Pipeline
	origins  *security.OriginFilter
	limiter  RateLimiter
	monitor  *monitoring.Monitor
	secret   []byte
}

func NewWebhookHandler(pipeline *webhook.Pipeline, origins *security.OriginFilter, limiter RateLimiter, monitor *monitoring.Monitor, secret []byte) *WebhookHandler {
	return &WebhookHandler{
		pipeline: pipeline,
		origins:  origins,
		limiter:  limiter,
		monitor:  monitor,
		secret:   secret,
	}
}

// HandlePaymentWebhook - POST /api/v1/webhooks/payment
func (h *WebhookHandler) HandlePaymentWebhook(e *core.RequestEvent) error {
	code, body := h.process(e.Request.Context(), e.RealIP(), e.Request.Header.Get("X-Signature"), e.Request.Body)
	return e.JSON(code, body)
}

func (h *WebhookHandler) process(ctx context.Context, ip, signature string, body io.Reader) (int, map[string]any) {
	started := time.Now()

	if !h.origins.Allowed(ip) {
		return h.reject(ip, http.StatusForbidden, "forbidden", status.ErrOriginNotAllowed)
	}

	allowed, err := h.limiter.Allow(ctx, ip)
	if err != nil {
		// Rate limiting is best-effort: the request is still authenticated
		// by its signature, so fail open rather than drop valid payments.
		slog.Warn("rate limiter unavailable, allowing request", "ip", ip, "error", err)
	} else if !allowed {
		return h.reject(ip, http.StatusTooManyRequests, "too_many_requests", status.ErrRateLimited)
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return h.reject(ip, http.StatusBadRequest, "rejected", status.ErrMalformedPayload)
	}
	if len(raw) > maxBodyBytes {
		// A truncated body would only fail the signature check with a
		// misleading 401; oversized payloads are malformed input.
		return h.reject(ip, http.StatusBadRequest, "rejected",
			fmt.Errorf("%w: body exceeds %d bytes", status.ErrMalformedPayload, maxBodyBytes))
	}

	if !security.VerifySignature(raw, signature, h.secret) {
		return h.reject(ip, http.StatusUnauthorized, "unauthorized", status.ErrInvalidSignature)
	}

	result, err := h.pipeline.Process(ctx, raw)
	if err != nil {
		switch {
		case errors.Is(err, status.ErrMalformedPayload),
			errors.Is(err, status.ErrStaleNotification),
			errors.Is(err, status.ErrAmountMismatch),
			errors.Is(err, status.ErrTransactionNotFound):
			return h.reject(ip, http.StatusBadRequest, "rejected", err)
		default:
			// Infrastructure failure inside the atomic unit: nothing is
			// committed, the gateway may retry safely.
			slog.Error("webhook processing failed", "ip", ip, "error", err)
			h.track("error", started)
			return http.StatusInternalServerError, map[string]any{"status": "error"}
		}
	}

	outcome := string(result.Outcome)
	if result.Duplicate {
		outcome = "duplicate"
	}
	h.track(outcome, started)

	return http.StatusOK, map[string]any{
		"status":  "ok",
		"outcome": outcome,
	}
}

func (h *WebhookHandler) reject(ip string, code int, outcome string, err error) (int, map[string]any) {
	slog.Info("webhook delivery rejected", "ip", ip, "reason", err)
	h.track(outcome, time.Time{})
	return code, map[string]any{"status": outcome}
}

func (h *WebhookHandler) track(outcome string, started time.Time) {
	if h.monitor == nil {
		return
	}
	h.monitor.TrackWebhook(outcome)
	if !started.IsZero() {
		h.monitor.ObserveProcessing(time.Since(started))
	}
}
