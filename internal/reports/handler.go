package reports

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	year, ok := h.parseYear(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.MonthlySales(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to aggregate monthly sales", "error", err, "year", year)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, buckets)
}

func (h *Handler) HandleWeeklySales(w http.ResponseWriter, r *http.Request) {
	year, ok := h.parseYear(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.WeeklySales(r.Context(), year)
	if err != nil {
		h.logger.Error("failed to aggregate weekly sales", "error", err, "year", year)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, buckets)
}

func (h *Handler) HandlePaginated(w http.ResponseWriter, r *http.Request) {
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	size := 10
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = n
	}

	start, end, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}

	result, err := h.service.Paginated(r.Context(), page, size, start, end)
	if err != nil {
		h.logger.Error("failed to list paginated orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportCSV(r.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to export orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("orders exported", "bytes", len(data))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="orders_export.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write csv response", "error", err)
	}
}

func (h *Handler) parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("year")
	year, err := strconv.Atoi(v)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid year")
		return 0, false
	}
	return year, true
}

// parseDateRange requires startDate and endDate together; a one-sided range
// is malformed.
func (h *Handler) parseDateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	startStr := r.URL.Query().Get("startDate")
	endStr := r.URL.Query().Get("endDate")

	if startStr == "" && endStr == "" {
		return nil, nil, true
	}
	if startStr == "" || endStr == "" {
		h.writeError(w, http.StatusBadRequest, "startDate and endDate must be supplied together")
		return nil, nil, false
	}

	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
		return nil, nil, false
	}

	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD")
		return nil, nil, false
	}

	return &start, &end, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
