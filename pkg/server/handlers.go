package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Sternrassler/ozon-abcxyz/pkg/analytics"
	"github.com/Sternrassler/ozon-abcxyz/pkg/client"
	"github.com/Sternrassler/ozon-abcxyz/pkg/export"
	"github.com/Sternrassler/ozon-abcxyz/pkg/pipeline"
	"github.com/rs/zerolog"
)

// ReportRunner runs one report. *pipeline.Runner implements it.
type ReportRunner interface {
	Run(ctx context.Context, dateFrom, dateTo string) (*pipeline.Result, error)
}

type reportHandler struct {
	runner ReportRunner
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	RunID string `json:"run_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetReport handles GET /api/v1/report?date_from=&date_to=&format=&summary=.
func (h *reportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	q := r.URL.Query()

	dateFrom, dateTo := q.Get("date_from"), q.Get("date_to")
	if dateFrom == "" || dateTo == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date_from and date_to are required"})
		return
	}

	format := export.FormatJSON
	if f := q.Get("format"); f != "" {
		parsed, err := export.ParseFormat(f)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		format = parsed
	}

	withSummary := false
	if s := q.Get("summary"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "summary must be a boolean"})
			return
		}
		withSummary = v
	}

	result, err := h.runner.Run(r.Context(), dateFrom, dateTo)
	if err != nil {
		status, resp := errorStatus(err)
		logger.Error().Err(err).Int("status", status).Msg("report failed")
		writeJSON(w, status, resp)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("Content-Type", format.ContentType())

	if format == export.FormatJSON {
		doc := export.NewDocument(result.Report, nil)
		if withSummary {
			doc.Summary = result.Summary
		}
		err = export.WriteDocument(w, doc)
	} else {
		err = export.Write(w, format, result.Report)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write report")
	}
}

// errorStatus maps a pipeline error to an HTTP status and body.
func errorStatus(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var se *pipeline.StageError
	if errors.As(err, &se) {
		resp.Stage = se.Stage
		resp.RunID = se.RunID
	}

	var (
		te  *client.TransportError
		dfe *analytics.DataFormatError
	)
	switch {
	case errors.Is(err, pipeline.ErrInvalidRange):
		return http.StatusBadRequest, resp
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, resp
	case errors.As(err, &te):
		if te.ErrorClass == client.ErrorClassNetwork {
			return http.StatusGatewayTimeout, resp
		}
		return http.StatusBadGateway, resp
	case errors.As(err, &dfe):
		return http.StatusBadGateway, resp
	default:
		return http.StatusInternalServerError, resp
	}
}
