package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/response"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/terminal"
	"github.com/go-chi/chi/v5"
)

type SyncHandler interface {
	Sync(w http.ResponseWriter, r *http.Request)
	Push(w http.ResponseWriter, r *http.Request)
	ListSubjects(w http.ResponseWriter, r *http.Request)
}

type SyncService interface {
	Ingest(ctx context.Context, deviceID string) (punch.IngestReport, error)
	IngestPush(ctx context.Context, deviceID, pushKey string, raws []terminal.RawPunch) (punch.IngestReport, error)
	SyncKnownSubjects(ctx context.Context, deviceID string) ([]terminal.Subject, error)
}

type syncHandlerImpl struct {
	syncService SyncService
}

func NewSyncHandler(syncService SyncService) SyncHandler {
	return &syncHandlerImpl{
		syncService: syncService,
	}
}

// Sync implements SyncHandler. Pulls new punches from one terminal since
// its watermark and reconciles every touched day.
func (h *syncHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		response.BadRequest(w, "Device ID is required", nil)
		return
	}

	report, err := h.syncService.Ingest(r.Context(), deviceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sync completed", report)
}

// Push implements SyncHandler. Terminals push batches directly; the request
// authenticates with the device push key, not an employee token.
func (h *syncHandlerImpl) Push(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		response.BadRequest(w, "Device ID is required", nil)
		return
	}

	pushKey := r.Header.Get("X-Push-Key")
	if pushKey == "" {
		response.Unauthorized(w, "Missing push key")
		return
	}

	var raws []terminal.RawPunch
	if err := json.NewDecoder(r.Body).Decode(&raws); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	report, err := h.syncService.IngestPush(r.Context(), deviceID, pushKey, raws)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Batch accepted", report)
}

// ListSubjects implements SyncHandler.
func (h *syncHandlerImpl) ListSubjects(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		response.BadRequest(w, "Device ID is required", nil)
		return
	}

	subjects, err := h.syncService.SyncKnownSubjects(r.Context(), deviceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, subjects)
}
