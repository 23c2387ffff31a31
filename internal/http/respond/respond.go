// Package respond centralizes the JSON envelope every handler writes, so
// the web client can rely on one response shape across the API.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope wraps every API response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success response carrying data under the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	encode(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response; the message is the only detail exposed.
func Error(w http.ResponseWriter, status int, message string) {
	encode(w, status, Envelope{Code: status, Message: message})
}

func encode(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("respond: encode envelope: %v", err)
	}
}
