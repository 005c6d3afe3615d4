package http

import (
	"net/http"
	"net/url"

	"budgetwise/internal/log"
)

// handleAsk answers {"message": "..."} with {"response": "..."}.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		ErrorResponse(http.StatusServiceUnavailable, "the budget advisor is not configured").Write(w)
		return
	}
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	ans, err := s.advisor.Ask(r.Context(), p.Get("message"))
	if err != nil {
		writeError(w, r, log.OpAsk, err)
		return
	}
	NewJSONResponse().Body(advisorReplyDTO{Response: ans.Reply, Model: ans.Model}).Write(w)
}

func (s *Server) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	list, err := s.helpdesk.Complaints(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(list, toComplaintDTO)).Write(w)
}

func (s *Server) handleGetComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := s.helpdesk.Complaint(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(toComplaintDTO(c)).Write(w)
}

func (s *Server) handleFileComplaint(w http.ResponseWriter, r *http.Request) {
	c, err := ParseComplaint(NewRequestBodyParser(w, r))
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	c, err = s.helpdesk.File(r.Context(), c)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created(w, "/api/complaints/"+url.PathEscape(c.ID), toComplaintDTO(c))
}

// handleComplaintStatus applies {"status": "open"|"resolved"}.
func (s *Server) handleComplaintStatus(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatusChange(NewRequestBodyParser(w, r))
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	c, err := s.helpdesk.SetStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toComplaintDTO(c)).Write(w)
}
