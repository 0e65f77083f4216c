package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/face-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/face-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/face-attendance-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/face-attendance-go/internal/service/attendance"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	Scan(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	TopPerformers(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
	keepalive         time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
		keepalive:         30 * time.Second,
	}
}

func markBody(result attendance.MarkAttendanceResponse) response.Body {
	body := response.Body{
		"type":         result.Type,
		"employeeName": result.EmployeeName,
		"record":       result.Record,
	}
	if result.Distance != nil {
		body["distance"] = *result.Distance
	}
	return body
}

func writeMarkResult(w http.ResponseWriter, result attendance.MarkAttendanceResponse) {
	if result.Type == attendance.MarkCheckIn {
		response.Created(w, result.Message, markBody(result))
		return
	}
	response.SuccessWithMessage(w, result.Message, markBody(result))
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Mark attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeMarkResult(w, result)
}

// Scan implements AttendanceHandler.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Scan attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Scan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeMarkResult(w, result)
}

// ListForEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	filter := attendance.EmployeeAttendanceFilter{
		EmployeeID: chi.URLParam(r, "employeeId"),
	}
	if startDate := r.URL.Query().Get("startDate"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("endDate"); endDate != "" {
		filter.EndDate = &endDate
	}

	records, err := h.attendanceService.ListForEmployee(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, response.Body{"records": records})
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	var filter attendance.DayAttendanceFilter
	if date := r.URL.Query().Get("date"); date != "" {
		filter.Date = &date
	}

	records, err := h.attendanceService.ListForDay(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, response.Body{"attendance": records})
}

// TopPerformers implements AttendanceHandler.
func (h *attendanceHandlerImpl) TopPerformers(w http.ResponseWriter, r *http.Request) {
	boards, err := h.attendanceService.TopPerformers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, response.Body{
		"topLate":       boards.TopLate,
		"topEarly":      boards.TopEarly,
		"topAttendance": boards.TopAttendance,
		"topOvertime":   boards.TopOvertime,
	})
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// Stream pushes check-in, check-out and delete events as server-sent events
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(attendanceService.StreamTopic)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
