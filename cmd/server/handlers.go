package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/childsupport/internal/cache"
	"github.com/Simplici0/childsupport/internal/schedule"
	"github.com/Simplici0/childsupport/internal/support"
	"github.com/Simplici0/childsupport/web"
)

const maxJSONBody = 1 << 16

type server struct {
	calc      *support.Calculator
	schedule  *schedule.Schedule
	results   *cache.Results
	templates map[string]*template.Template
	log       *logrus.Entry
}

type baseViewData struct {
	ErrorMessage string
}

type homeViewData struct {
	baseViewData
	Form formValues
}

type resultViewData struct {
	baseViewData
	Form   formValues
	Result support.Result
	Notes  []string
}

type calculateResponse struct {
	support.Result
	Notes []string `json:"notes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var templateFuncs = template.FuncMap{
	"comma":   humanize.Comma,
	"percent": formatPercent,
	"inc":     func(i int) int { return i + 1 },
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func newServer(sched *schedule.Schedule, results *cache.Results, log *logrus.Entry) (*server, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{"home.html", "result.html"} {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(web.Templates, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &server{
		calc:      support.NewCalculator(sched),
		schedule:  sched,
		results:   results,
		templates: templates,
		log:       log,
	}, nil
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "home.html", homeViewData{Form: defaultFormValues()})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schedule)
}

func (s *server) handleCalculateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := formValuesFromRequest(r)
	in, err := parseCalculationForm(r)
	if err != nil {
		s.renderTemplate(w, http.StatusBadRequest, "home.html", homeViewData{
			baseViewData: baseViewData{ErrorMessage: err.Error()},
			Form:         form,
		})
		return
	}

	result, err := s.calculate(r.Context(), in)
	if err != nil {
		s.log.WithError(err).Error("calculation failed")
		s.renderTemplate(w, http.StatusInternalServerError, "home.html", homeViewData{
			baseViewData: baseViewData{ErrorMessage: "The calculation could not be completed. Please try again."},
			Form:         form,
		})
		return
	}

	s.renderTemplate(w, http.StatusOK, "result.html", resultViewData{
		Form:   form,
		Result: result,
		Notes:  result.Notes(),
	})
}

func (s *server) handleCalculateJSON(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.calculate(r.Context(), in)
	if err != nil {
		if errors.Is(err, support.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.WithError(err).Error("calculation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "calculation failed"})
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{Result: result, Notes: result.Notes()})
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.templates[page]
	if !ok {
		http.Error(w, "unknown template", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.log.WithError(err).Errorf("render %s", page)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
