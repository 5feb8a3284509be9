/*
Copyright © 2026 Quizbox Authors
*/

package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/quizbox/quizbox/lobby"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// statusForError maps the lobby error taxonomy onto HTTP statuses:
// validation 400, not found 404, forbidden 403, conflicts (double start,
// closed room, full room, exhausted code space) 409.
func statusForError(err error) int {
	switch {
	case errors.Is(err, lobby.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrRoomNotFound),
		errors.Is(err, lobby.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrRoomClosed),
		errors.Is(err, lobby.ErrRoomFull),
		errors.Is(err, lobby.ErrAlreadyStarted),
		errors.Is(err, lobby.ErrNotEnoughPlayers),
		errors.Is(err, lobby.ErrCodesExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(cfg *Config, w http.ResponseWriter, err error) {
	status := statusForError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	writeJSON(cfg, w, status, map[string]string{"error": msg})
}
