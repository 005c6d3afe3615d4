package http

import (
	"net/http"
	"net/url"

	"budgetwise/internal/log"
)

func created(w http.ResponseWriter, location string, body any) {
	NewJSONResponse().Status(http.StatusCreated).Header("Location", location).Body(body).Write(w)
}

func noContent(w http.ResponseWriter) {
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// Expenses

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.ListExpenses(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(items, toExpenseDTO)).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.records.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(toExpenseDTO(e)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	e, err := ParseExpense(NewRequestBodyParser(w, r), s.today())
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	e, err = s.records.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created(w, "/api/expenses/"+url.PathEscape(e.ID), toExpenseDTO(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	e, err := ParseExpense(NewRequestBodyParser(w, r), s.today())
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	e.ID = r.PathValue("id")
	e, err = s.records.UpdateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toExpenseDTO(e)).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	noContent(w)
}

// Income

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.ListIncome(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(items, toIncomeDTO)).Write(w)
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	i, err := s.records.GetIncome(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(toIncomeDTO(i)).Write(w)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	i, err := ParseIncome(NewRequestBodyParser(w, r), s.today())
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	i, err = s.records.CreateIncome(r.Context(), i)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created(w, "/api/income/"+url.PathEscape(i.ID), toIncomeDTO(i))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	i, err := ParseIncome(NewRequestBodyParser(w, r), s.today())
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	i.ID = r.PathValue("id")
	i, err = s.records.UpdateIncome(r.Context(), i)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toIncomeDTO(i)).Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteIncome(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	noContent(w)
}

// Goals

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	NewJSONResponse().Body(mapSlice(items, toGoalDTO)).Write(w)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.records.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	NewJSONResponse().Body(toGoalDTO(g)).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	g, err := ParseGoal(NewRequestBodyParser(w, r))
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	g, err = s.records.CreateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created(w, "/api/goals/"+url.PathEscape(g.ID), toGoalDTO(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	g, err := ParseGoal(NewRequestBodyParser(w, r))
	if err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	g.ID = r.PathValue("id")
	g, err = s.records.UpdateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(toGoalDTO(g)).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	noContent(w)
}

// Categories

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.records.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	NewJSONResponse().Body(cats).Write(w)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, log.OpValidate, err)
		return
	}
	name := p.Get("name")
	if err := s.records.AddCategory(r.Context(), name); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	created(w, "/api/categories/"+url.PathEscape(name), map[string]string{"name": name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteCategory(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	noContent(w)
}
