package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"debloom/internal/core"
)

type createTodoRequest struct {
	CategoryName string `json:"categoryName"`
	TodoDate     string `json:"todoDate"`
	Content      string `json:"content"`
}

type updateTodoRequest struct {
	Content     *string `json:"content"`
	IsCompleted *bool   `json:"isCompleted"`
}

type createGroupRequest struct {
	CategoryName string `json:"categoryName"`
	TodoDate     string `json:"todoDate"`
}

// decodeJSON reads exactly one JSON object of at most maxBodyBytes into dst.
// The returned error is already a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return core.Validation(op, "request body is too large")
		case errors.Is(err, io.EOF):
			return core.Validation(op, "request body is required")
		default:
			return core.Validation(op, "request body must be a valid JSON object")
		}
	}
	if dec.More() {
		return core.Validation(op, "request body must contain a single JSON object")
	}
	return nil
}

// parseTodoID reads the {id} path segment.
func parseTodoID(r *http.Request, op string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, core.Validation(op, "todosId must be a positive integer")
	}
	return id, nil
}
