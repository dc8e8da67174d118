package handlers

import (
	"net/http"
	"time"

	"qualifier/internal/pkg/errors"
)

type HealthHandler struct {
	started time.Time
	hiring  *HiringHandler
}

func NewHealthHandler(hiring *HiringHandler) *HealthHandler {
	return &HealthHandler{started: time.Now(), hiring: hiring}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Status      string `json:"status"`
		Timestamp   int64  `json:"timestamp"`
		Uptime      string `json:"uptime"`
		Submissions int    `json:"submissions"`
	}{
		Status:      "healthy",
		Timestamp:   time.Now().Unix(),
		Uptime:      time.Since(h.started).Round(time.Second).String(),
		Submissions: len(h.hiring.Submissions()),
	}

	errors.WriteJSON(w, http.StatusOK, response)
}
