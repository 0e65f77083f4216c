package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/face"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
)

type FaceHandler interface {
	Identify(w http.ResponseWriter, r *http.Request)
	RefreshRoster(w http.ResponseWriter, r *http.Request)
}

type faceHandlerImpl struct {
	faceService face.Service
}

func NewFaceHandler(faceService face.Service) FaceHandler {
	return &faceHandlerImpl{faceService: faceService}
}

// Identify matches a descriptor against the current roster. An unmatched
// face is a successful lookup with matched=false.
func (h *faceHandlerImpl) Identify(w http.ResponseWriter, r *http.Request) {
	var req face.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Identify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.faceService.Identify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, response.Body{"result": result})
}

// RefreshRoster implements FaceHandler.
func (h *faceHandlerImpl) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.faceService.RefreshRoster(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Roster refreshed", response.Body{"roster": roster})
}
