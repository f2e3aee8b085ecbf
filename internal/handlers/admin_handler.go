package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketpass/security"
)

// AdminHandler exposes capacity anomalies for manual operator
// reconciliation. Auth is a static operator token checked against a bcrypt
// hash from config.
type AdminHandler struct {
	app       core.App
	tokenHash string
}

func NewAdminHandler(app core.App, tokenHash string) *AdminHandler {
	return &AdminHandler{
		app:       app,
		tokenHash: tokenHash,
	}
}

// ListAnomalies - GET /api/v1/admin/anomalies
func (h *AdminHandler) ListAnomalies(e *core.RequestEvent) error {
	if !h.authorized(e) {
		return apis.NewUnauthorizedError("Invalid operator token", nil)
	}

	anomalies, err := h.app.FindRecordsByFilter(
		"capacity_anomalies",
		"resolved = false",
		"-created",
		200,
		0,
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to get anomalies", err)
	}

	result := make([]map[string]any, 0, len(anomalies))
	for _, anomaly := range anomalies {
		result = append(result, map[string]any{
			"id":             anomaly.Id,
			"transaction_id": anomaly.GetString("transaction_id"),
			"event_id":       anomaly.GetString("event_id"),
			"quantity":       anomaly.GetInt("quantity"),
			"flagged_at":     anomaly.GetDateTime("created"),
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"anomalies": result,
		"total":     len(result),
	})
}

// ResolveAnomaly - POST /api/v1/admin/anomalies/{id}/resolve
func (h *AdminHandler) ResolveAnomaly(e *core.RequestEvent) error {
	if !h.authorized(e) {
		return apis.NewUnauthorizedError("Invalid operator token", nil)
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	anomaly, err := h.app.FindRecordById("capacity_anomalies", e.Request.PathValue("id"))
	if err != nil {
		return apis.NewNotFoundError("Anomaly not found", err)
	}

	anomaly.Set("resolved", true)
	anomaly.Set("note", req.Note)
	if err := h.app.Save(anomaly); err != nil {
		return apis.NewBadRequestError("Failed to resolve anomaly", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Anomaly resolved"})
}

func (h *AdminHandler) authorized(e *core.RequestEvent) bool {
	return security.CompareOperatorToken(h.tokenHash, e.Request.Header.Get("X-Admin-Token"))
}
