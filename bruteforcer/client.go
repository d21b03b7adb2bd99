package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/game/service"
)

// Client plays a session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// CreateSession starts a session on packID, or the server default when empty
func (c *Client) CreateSession(packID string) (*engine.Snapshot, error) {
	var body interface{}
	if packID != "" {
		body = map[string]string{"pack_id": packID}
	}

	var info service.SessionInfo
	if err := c.do(http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(sessionID string) (*engine.Snapshot, error) {
	c.sessionID = sessionID
	return c.GetState()
}

func (c *Client) GetState() (*engine.Snapshot, error) {
	var state engine.Snapshot
	if err := c.do(http.MethodGet, c.path("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Reset() (*engine.Snapshot, error) {
	var resetResp struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}
	if err := c.do(http.MethodPost, c.path("/reset"), nil, &resetResp); err != nil {
		return nil, err
	}
	return resetResp.State, nil
}

// SelectLevel jumps to an absolute level number of the session's pack
func (c *Client) SelectLevel(number int) (*engine.Snapshot, error) {
	var state engine.Snapshot
	if err := c.do(http.MethodPost, c.path("/level"), service.LevelRequest{Level: number}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Play sends moves in bulk-move sized chunks and stops at the first chunk
// that does not run to the end.
func (c *Client) Play(moves []string) (*service.BulkMoveResult, error) {
	var result service.BulkMoveResult
	for start := 0; start < len(moves); start += engine.MaxBulkMoves {
		end := min(start+engine.MaxBulkMoves, len(moves))
		chunk := moves[start:end]

		result = service.BulkMoveResult{}
		req := map[string]interface{}{"moves": chunk}
		if err := c.do(http.MethodPost, c.path("/bulk-move"), req, &result); err != nil {
			return nil, err
		}
		if result.MovesExecuted < len(chunk) {
			break
		}
	}
	return &result, nil
}

// PackFirstLevel returns the server's number for the first level of packID
// after checking the server pack has the same checksum and size as local.
func (c *Client) PackFirstLevel(packID string, local *engine.LevelPack) (int, error) {
	var detail service.PackDetail
	if err := c.do(http.MethodGet, "/api/packs/"+packID, nil, &detail); err != nil {
		return 0, err
	}
	if detail.Checksum != local.Checksum || len(detail.Levels) != local.Len() {
		return 0, fmt.Errorf("server pack %s has checksum %d and %d levels, local pack has %d and %d",
			packID, detail.Checksum, len(detail.Levels), local.Checksum, local.Len())
	}
	return detail.Levels[0].Number, nil
}

func (c *Client) path(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}
