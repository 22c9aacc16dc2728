package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pdpkitchen/dashboard/stats"
	"github.com/pdpkitchen/dashboard/students"
)

// OverviewPageData holds the headline figures and the raw periods behind them
type OverviewPageData struct {
	Overview stats.Overview
	Cards    []stats.Card
}

func (s *Server) OverviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := s.statsFor(r).Overview(r.Context())
		if err != nil {
			s.renderError(w, r, "Umumiy ko'rinish", err)
			return
		}
		data := OverviewPageData{Overview: overview, Cards: overview.Cards()}
		s.render(w, r, http.StatusOK, "overview.html", s.page(r, "Umumiy ko'rinish", "overview", data))
	}
}

// NoEatingPageData is the alerts page: the report plus the filters that produced it
type NoEatingPageData struct {
	Params stats.NotEatingParams
	Report stats.NotEatingReport
	Types  []students.StudentType
}

// NoEatingHandler lists students who have not eaten for the given number of days.
// Missing or malformed filters fall back to their defaults.
func (s *Server) NoEatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := notEatingParams(r)
		report, err := s.statsFor(r).NotEating(r.Context(), params)
		if err != nil {
			s.renderError(w, r, "Ovqatlanmaganlar", err)
			return
		}
		data := NoEatingPageData{
			Params: params,
			Report: report,
			Types:  []students.StudentType{students.Scholarship, students.Contract},
		}
		s.render(w, r, http.StatusOK, "no_eating.html", s.page(r, "Ovqatlanmaganlar", "no-eating", data))
	}
}

func notEatingParams(r *http.Request) stats.NotEatingParams {
	params := stats.DefaultNotEatingParams()
	q := r.URL.Query()
	if days, ok := positiveInt(q.Get("days")); ok {
		params.Days = days
	}
	if course, ok := positiveInt(q.Get("course")); ok {
		params.Course = course
	}
	if t := students.StudentType(strings.ToUpper(q.Get("student_type"))); t.Valid() {
		params.StudentType = string(t)
	}
	return params
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
