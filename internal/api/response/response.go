package response

import (
	"encoding/json"
	"net/http"
)

// Response represents a standard API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(resp)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: false,
		Error:   message,
	}

	json.NewEncoder(w).Encode(resp)
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message any) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message any) {
	Error(w, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict response
func Conflict(w http.ResponseWriter, message any) {
	Error(w, http.StatusConflict, message)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, message any) {
	Error(w, http.StatusInternalServerError, message)
}
