package http

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
)

// JSON writes a JSON response to the client
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// If encoding fails, try to write a simple error message
			w.Write([]byte(`{"error":"Failed to encode response"}`))
		}
	}
}

// HTML executes a page template into a buffer first so a template error
// still yields a clean 500 instead of a half-written page
func HTML(w http.ResponseWriter, statusCode int, tmpl *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}
