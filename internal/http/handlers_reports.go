package http

import (
	"net/http"

	"budgetwise/internal/log"
)

func (s *Server) reportFailed(w http.ResponseWriter, r *http.Request, report string, err error) {
	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogError(r.Context(), "Report failed", err, log.ComponentReports, log.OpReport, log.LogFields{log.FieldReport: report})
	ErrorResponse(http.StatusInternalServerError, "report unavailable").Write(w)
}

// handleMonthlyReport serves daily expense buckets for ?year=&month=,
// defaulting to the current month.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	buckets, err := s.reports.Monthly(r.Context(), params.Year, params.Month)
	if err != nil {
		s.reportFailed(w, r, "monthly", err)
		return
	}
	month := params.Month
	if len(buckets) > 0 {
		month = buckets[0].Start.Month()
	}
	NewJSONResponse().Body(toSeriesDTO(params.Year, month, buckets)).Write(w)
}

func (s *Server) handleYearlyReport(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	buckets, err := s.reports.Yearly(r.Context(), params.Year)
	if err != nil {
		s.reportFailed(w, r, "yearly", err)
		return
	}
	NewJSONResponse().Body(toSeriesDTO(params.Year, 0, buckets)).Write(w)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	ov, err := s.reports.Categories(r.Context(), params.Year, params.Month)
	if err != nil {
		s.reportFailed(w, r, "categories", err)
		return
	}
	NewJSONResponse().Body(toOverviewDTO(ov)).Write(w)
}

// handleStatement serves the reconciled statement for ?start=&end=. With
// neither bound the current month is used; an inverted window yields no
// lines. ?range=all covers the whole history.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("range") == "all" {
		st, err := s.reports.FullStatement(r.Context())
		if err != nil {
			s.reportFailed(w, r, "statement", err)
			return
		}
		NewJSONResponse().Body(toStatementDTO(st)).Write(w)
		return
	}
	start, end, err := ParseWindow(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if start.Valid() != end.Valid() {
		BadRequestError("start and end must be given together").Write(w)
		return
	}
	st, err := s.reports.Statement(r.Context(), start, end)
	if err != nil {
		s.reportFailed(w, r, "statement", err)
		return
	}
	NewJSONResponse().Body(toStatementDTO(st)).Write(w)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseGoalFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	progress, err := s.reports.GoalProgress(r.Context(), filter)
	if err != nil {
		s.reportFailed(w, r, "goals", err)
		return
	}
	NewJSONResponse().Body(mapSlice(progress, toGoalProgressDTO)).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.reports.Summary(r.Context())
	if err != nil {
		s.reportFailed(w, r, "summary", err)
		return
	}
	NewJSONResponse().Body(toSummaryDTO(sum)).Write(w)
}
