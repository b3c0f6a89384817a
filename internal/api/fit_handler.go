package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/google/uuid"

	"labfit/app"
	"labfit/domain/circuit"
	"labfit/domain/fit"
	"labfit/domain/model"
	"labfit/internal/errors"
	"labfit/internal/report"
)

// FitRequest is the JSON body for POST /api/fits
type FitRequest struct {
	Label string    `json:"label"`
	Model string    `json:"model"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Sigma []float64 `json:"sigma"`
	// Guess is optional; when absent it is derived from the endpoints
	Guess []float64 `json:"guess,omitempty"`
	// Derived names diode quantities to propagate: "emission_coefficient",
	// "saturation_current". Only meaningful for the logarithmic models.
	Derived []string `json:"derived,omitempty"`
	// ThermalVoltage is required when deriving the emission coefficient
	ThermalVoltage float64 `json:"thermal_voltage,omitempty"`
}

// handleFit runs one fit and returns the stored report
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("request body is not valid JSON"))
		return
	}

	m, err := model.ByName(req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	obs, err := fit.NewObservationSet(req.X, req.Y, req.Sigma)
	if err != nil {
		writeError(w, err)
		return
	}

	derived, err := resolveDerived(req)
	if err != nil {
		writeError(w, err)
		return
	}

	label := req.Label
	if label == "" {
		label = "adhoc"
	}
	fitReport, err := s.svc.RunOne(r.Context(), app.SweepRequest{
		Label:   label,
		Model:   m,
		Obs:     obs,
		Guess:   req.Guess,
		Derived: derived,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fitReport)
}

func resolveDerived(req FitRequest) ([]app.DerivedQuantity, error) {
	var out []app.DerivedQuantity
	for _, name := range req.Derived {
		switch name {
		case "emission_coefficient":
			if req.ThermalVoltage <= 0 {
				return nil, errors.InvalidInput("thermal_voltage must be > 0 to derive the emission coefficient")
			}
			out = append(out, app.DerivedQuantity{Name: name, Fn: circuit.EmissionCoefficient(req.ThermalVoltage)})
		case "saturation_current":
			out = append(out, app.DerivedQuantity{Name: name, Fn: circuit.SaturationCurrent()})
		default:
			return nil, errors.InvalidInput("unknown derived quantity: " + name)
		}
	}
	return out, nil
}

// handleListModels returns the closed set of available models
func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	type modelInfo struct {
		Name  string `json:"name"`
		Arity int    `json:"arity"`
	}
	all := []model.Model{model.Linear, model.LinearLog, model.LinearLogLinear}
	out := make([]modelInfo, 0, len(all))
	for _, m := range all {
		out = append(out, modelInfo{Name: m.Name(), Arity: m.Arity()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListReports returns recent fit reports
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.repo.ListReports(r.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleGetReport returns one fit report as JSON
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportId"))
	if err != nil {
		writeError(w, errors.InvalidInput("invalid report ID"))
		return
	}
	fitReport, err := s.repo.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fitReport)
}

// handleReportHTML renders one fit report's markdown summary as HTML
func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportId"))
	if err != nil {
		writeError(w, errors.InvalidInput("invalid report ID"))
		return
	}
	fitReport, err := s.repo.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	html := markdown.ToHTML([]byte(report.Markdown(fitReport)), nil, nil)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeDimensionMismatch, errors.CodeInsufficientData,
		errors.CodeDomainError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeConvergenceError:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
