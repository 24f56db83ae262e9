package http

import (
	"net/http"
	"strings"

	"debloom/internal/core"
	applog "debloom/internal/log"
	"debloom/internal/services"
)

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	groups, err := s.todos.ListTodos(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}
	writeSuccess(w, http.StatusOK, groups)
}

func (s *Server) handleMonthlyTodos(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	counts, err := s.todos.MonthlyCounts(r.Context(), month)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCount, err)
		return
	}
	writeSuccess(w, http.StatusOK, counts)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSON(w, r, "createTodo", &req); err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	created, err := s.todos.CreateTodo(r.Context(), services.CreateTodoInput{
		CategoryName: req.CategoryName,
		TodoDate:     req.TodoDate,
		Content:      req.Content,
	})
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	const op = "updateTodo"
	id, err := parseTodoID(r, op)
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}

	var req updateTodoRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}

	view, err := s.todos.UpdateTodo(r.Context(), id, core.TodoPatch{
		Content:     req.Content,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	writeSuccess(w, http.StatusOK, view)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, "createTodoGroup", &req); err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	group, err := s.todos.CreateTodoGroup(r.Context(), req.CategoryName, req.TodoDate)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	writeSuccess(w, http.StatusCreated, group)
}
