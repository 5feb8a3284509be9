package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"

	"github.com/quizbox/quizbox/lobby"
)

type playerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
	Ready  bool   `json:"readyFlag"`
}

func toPlayerResponse(p lobby.Player) playerResponse {
	return playerResponse{
		ID:     p.ID,
		Name:   p.Name,
		RoomID: p.RoomID,
		Ready:  p.Ready,
	}
}

func decodeBody(cfg *Config, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(cfg, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func createRoom(cfg *Config, reg *lobby.Registry, limiter *ipLimiter) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		if !limiter.allowRequest(r) {
			writeJSON(cfg, w, http.StatusTooManyRequests, map[string]string{"error": "too many rooms created, slow down"})
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(cfg, w, r, &body) {
			return
		}

		room, err := reg.CreateRoom(body.Name)
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "LOBBY: Created room %s (%s) for %q from %s in %s",
			room.Code,
			room.ID,
			room.Host,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		writeJSON(cfg, w, http.StatusCreated, map[string]string{
			"roomId": room.ID,
			"code":   room.Code,
		})
	}
}

func lookupRoom(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := reg.Lookup(ps.ByName("room"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		writeJSON(cfg, w, http.StatusOK, map[string]any{
			"roomId":  room.ID,
			"code":    room.Code,
			"host":    room.Host,
			"state":   room.State.String(),
			"players": room.Players,
		})
	}
}

func joinRoom(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(cfg, w, r, &body) {
			return
		}

		room, err := reg.Lookup(ps.ByName("room"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		player, err := reg.Join(room.ID, body.Name)
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "LOBBY: Player %q joined room %s from %s in %s",
			player.Name,
			room.Code,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		writeJSON(cfg, w, http.StatusCreated, map[string]string{
			"roomId":   room.ID,
			"playerId": player.ID,
		})
	}
}

func listPlayers(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		players, err := reg.Players(ps.ByName("room"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		out := make([]playerResponse, 0, len(players))
		for _, p := range players {
			out = append(out, toPlayerResponse(p))
		}

		writeJSON(cfg, w, http.StatusOK, map[string]any{"players": out})
	}
}

func setReady(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("room")

		// gameState is accepted for compatibility with existing
		// clients but carries no server-side meaning.
		var body struct {
			PlayerID  string `json:"playerId"`
			Name      string `json:"name"`
			Ready     bool   `json:"readyFlag"`
			GameState string `json:"gameState"`
		}
		if !decodeBody(cfg, w, r, &body) {
			return
		}

		var (
			player lobby.Player
			err    error
		)
		if body.PlayerID != "" {
			player, err = reg.SetReady(roomID, body.PlayerID, body.Ready)
		} else {
			player, err = reg.SetReadyByName(roomID, body.Name, body.Ready)
		}
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "LOBBY: Player %q in room %s is now %s",
			player.Name,
			roomID,
			map[bool]string{true: "ready", false: "not ready"}[player.Ready],
		)

		writeJSON(cfg, w, http.StatusOK, toPlayerResponse(player))
	}
}

func startGame(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("room")

		var body struct {
			HostIdentity string `json:"hostIdentity"`
		}
		if !decodeBody(cfg, w, r, &body) {
			return
		}

		if err := reg.Start(roomID, body.HostIdentity); err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "LOBBY: Room %s started by %q from %s", roomID, body.HostIdentity, realIP(r))

		writeJSON(cfg, w, http.StatusOK, map[string]bool{"started": true})
	}
}

func closeRoom(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("room")

		var body struct {
			HostIdentity string `json:"hostIdentity"`
		}
		if !decodeBody(cfg, w, r, &body) {
			return
		}

		room, err := reg.Get(roomID)
		if err != nil {
			writeError(cfg, w, err)
			return
		}
		if body.HostIdentity != room.Host {
			writeError(cfg, w, lobby.ErrNotHost)
			return
		}

		if err := reg.CloseRoom(roomID); err != nil {
			writeError(cfg, w, err)
			return
		}

		logf(cfg, "LOBBY: Room %s closed by %q", room.Code, body.HostIdentity)

		w.WriteHeader(http.StatusNoContent)
	}
}

func leaveRoom(cfg *Config, reg *lobby.Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := reg.Leave(ps.ByName("room"), ps.ByName("player")); err != nil {
			writeError(cfg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// serveRoomQR renders a scannable share link for a room code, so the
// host can hold up a phone instead of spelling the code out.
func serveRoomQR(cfg *Config, reg *lobby.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := reg.Lookup(ps.ByName("room"))
		if err != nil {
			writeError(cfg, w, err)
			return
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/join/" + room.Code

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			writeJSON(cfg, w, http.StatusInternalServerError, map[string]string{"error": "qr generation failed"})
			return
		}

		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// registerLobbyAPI wires the room/player protocol under /api:
//   - POST   /api/rooms                         → create a room
//   - GET    /api/rooms/:room                   → look up by code
//   - POST   /api/rooms/:room/players           → join by code
//   - POST   /api/rooms/:room/start             → host starts the game
//   - DELETE /api/rooms/:room                   → host closes the room
//   - DELETE /api/rooms/:room/players/:player   → leave
//   - GET    /api/rooms/:room/qr                → share link as QR PNG
//   - GET    /api/players/:room                 → player snapshot by room id
//   - PATCH  /api/players/:room/status          → readiness flag by room id
func registerLobbyAPI(cfg *Config, reg *lobby.Registry, mux *httprouter.Router, errs chan<- error) {
	limiter := newIPLimiter(rate.Every(time.Second), 5)

	mux.POST(cfg.prefix+"/api/rooms", createRoom(cfg, reg, limiter))
	mux.GET(cfg.prefix+"/api/rooms/:room", lookupRoom(cfg, reg))
	mux.POST(cfg.prefix+"/api/rooms/:room/players", joinRoom(cfg, reg))
	mux.POST(cfg.prefix+"/api/rooms/:room/start", startGame(cfg, reg))
	mux.DELETE(cfg.prefix+"/api/rooms/:room", closeRoom(cfg, reg))
	mux.DELETE(cfg.prefix+"/api/rooms/:room/players/:player", leaveRoom(cfg, reg))
	mux.GET(cfg.prefix+"/api/rooms/:room/qr", serveRoomQR(cfg, reg, errs))
	mux.GET(cfg.prefix+"/api/players/:room", listPlayers(cfg, reg))
	mux.PATCH(cfg.prefix+"/api/players/:room/status", setReady(cfg, reg))
}
