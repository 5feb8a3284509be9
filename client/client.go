package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// Player mirrors the wire shape of a directory entry.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
	Ready  bool   `json:"readyFlag"`
}

// CreatedRoom is the response to a create call.
type CreatedRoom struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// JoinedRoom is the response to a join call.
type JoinedRoom struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// APIError is a non-2xx response decoded from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

func apiStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsNotFound(err error) bool  { return apiStatus(err, http.StatusNotFound) }
func IsForbidden(err error) bool { return apiStatus(err, http.StatusForbidden) }
func IsConflict(err error) bool  { return apiStatus(err, http.StatusConflict) }

// IsTransient reports whether err looks like a network or server hiccup
// worth retrying on the next poll tick, as opposed to a definitive
// answer about the request.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return false
	}

	// Anything else is a transport failure: timeout, refused
	// connection, cancelled context, garbled body.
	return true
}

// Client talks to a quizbox server. Every request carries a bounded
// timeout on top of whatever deadline the caller's context imposes.
// Actions are never retried internally; the caller re-triggers.
type Client struct {
	base string
	hc   *http.Client
}

func New(base string) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		hc:   &http.Client{Timeout: requestTimeout},
	}
}

// CreateRoom creates a room hosted by name.
func (c *Client) CreateRoom(ctx context.Context, name string) (CreatedRoom, error) {
	if err := validateName(name); err != nil {
		return CreatedRoom{}, err
	}

	var out CreatedRoom
	err := c.do(ctx, http.MethodPost, "/api/rooms", map[string]any{"name": name}, &out)

	return out, err
}

// JoinRoom joins the room identified by code under the given name.
func (c *Client) JoinRoom(ctx context.Context, name, code string) (JoinedRoom, error) {
	if err := validateName(name); err != nil {
		return JoinedRoom{}, err
	}
	if err := validateCode(code); err != nil {
		return JoinedRoom{}, err
	}

	code = strings.ToUpper(strings.TrimSpace(code))

	var out JoinedRoom
	err := c.do(ctx, http.MethodPost, "/api/rooms/"+code+"/players", map[string]any{"name": name}, &out)

	return out, err
}

// ListPlayers fetches the full player snapshot for a room.
func (c *Client) ListPlayers(ctx context.Context, roomID string) ([]Player, error) {
	var out struct {
		Players []Player `json:"players"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/players/"+roomID, nil, &out); err != nil {
		return nil, err
	}

	return out.Players, nil
}

// SetReady updates one player's readiness flag and returns the player
// as the server now sees it.
func (c *Client) SetReady(ctx context.Context, roomID, playerID, name string, ready bool) (Player, error) {
	body := map[string]any{
		"playerId":  playerID,
		"name":      name,
		"readyFlag": ready,
		"gameState": "Pending Start",
	}

	var out Player
	err := c.do(ctx, http.MethodPatch, "/api/players/"+roomID+"/status", body, &out)

	return out, err
}

// StartGame asks the server to move the room into the game-in-progress
// state. Only the host identity will be accepted.
func (c *Client) StartGame(ctx context.Context, roomID, hostIdentity string) error {
	var out struct {
		Started bool `json:"started"`
	}

	return c.do(ctx, http.MethodPost, "/api/rooms/"+roomID+"/start", map[string]any{"hostIdentity": hostIdentity}, &out)
}

// LeaveRoom removes a player from a room. Safe to repeat.
func (c *Client) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	return c.do(ctx, http.MethodDelete, "/api/rooms/"+roomID+"/players/"+playerID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := struct {
			Error string `json:"error"`
		}{}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Error == "" {
			msg.Error = http.StatusText(resp.StatusCode)
		}

		return &APIError{Status: resp.StatusCode, Message: msg.Error}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
