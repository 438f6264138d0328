package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

const (
	maxImportSize = 20 << 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type PerformanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: performanceService}
}

// Import reads the multipart field "file" and runs the CSV import.
func (h *performanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, performance.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.performanceService.ImportCSV(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance data imported", result)
}

func recordFilter(r *http.Request) (performance.RecordFilter, error) {
	page, limit, err := pagination(r)
	if err != nil {
		return performance.RecordFilter{}, err
	}
	return performance.RecordFilter{
		From:       optionalQuery(r, "from"),
		To:         optionalQuery(r, "to"),
		EmployeeID: optionalQuery(r, "employee_id"),
		Task:       optionalQuery(r, "task"),
		Page:       page,
		Limit:      limit,
	}, nil
}

func (h *performanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.performanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export streams the filtered records as an .xlsx attachment.
func (h *performanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.performanceService.ExportRecords(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="performance-records.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write export", "error", err)
	}
}
