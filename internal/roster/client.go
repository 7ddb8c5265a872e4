package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yoniadmire/puppy-bowl/internal/domain/players"
)

// Config controls how the client reaches the upstream player API.
type Config struct {
	BaseURL    string
	Cohort     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the cohort-scoped player collection of the upstream API.
type Client struct {
	playersURL string
	httpClient httpDoer
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		playersURL: normalizeBaseURL(cfg.BaseURL) + "/" + normalizeCohort(cfg.Cohort) + playersPath,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// PlayersURL returns the collection endpoint the client targets.
func (c *Client) PlayersURL() string {
	return c.playersURL
}

// ListPlayers fetches the whole roster in server order.
func (c *Client) ListPlayers(ctx context.Context) ([]players.Player, error) {
	var payload playersEnvelope
	if err := c.do(ctx, OpListPlayers, http.MethodGet, c.playersURL, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil || payload.Data.Players == nil {
		return nil, &NetworkError{Op: OpListPlayers, Err: ErrMalformedEnvelope}
	}
	return payload.Data.Players, nil
}

// GetPlayer fetches a single player by id.
func (c *Client) GetPlayer(ctx context.Context, id int) (players.Player, error) {
	var payload playerEnvelope
	if err := c.do(ctx, OpGetPlayer, http.MethodGet, c.playerURL(id), nil, &payload); err != nil {
		return players.Player{}, err
	}
	if payload.Data == nil || payload.Data.Player == nil {
		return players.Player{}, &NetworkError{Op: OpGetPlayer, Err: ErrMalformedEnvelope}
	}
	return *payload.Data.Player, nil
}

// CreatePlayer adds a player and returns the record with its server-assigned id.
func (c *Client) CreatePlayer(ctx context.Context, fields players.NewPlayer) (players.Player, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpCreatePlayer, http.MethodPost, c.playersURL, fields, &raw); err != nil {
		return players.Player{}, err
	}
	return decodeCreated(raw)
}

// DeletePlayer removes a player from the roster.
func (c *Client) DeletePlayer(ctx context.Context, id int) error {
	return c.do(ctx, OpDeletePlayer, http.MethodDelete, c.playerURL(id), nil, nil)
}

func (c *Client) playerURL(id int) string {
	return c.playersURL + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op Operation, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPStatusError{Op: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env, ok := out.(enveloped); ok {
		if msg, failed := env.failure(); failed {
			return &HTTPStatusError{Op: op, StatusCode: resp.StatusCode, Message: msg}
		}
	}
	return nil
}

func decodeCreated(raw json.RawMessage) (players.Player, error) {
	var env createdEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return players.Player{}, &NetworkError{Op: OpCreatePlayer, Err: fmt.Errorf("decode response: %w", err)}
	}
	if msg, failed := env.failure(); failed {
		return players.Player{}, &HTTPStatusError{Op: OpCreatePlayer, StatusCode: http.StatusOK, Message: msg}
	}
	if p := env.player(); p != nil {
		return *p, nil
	}

	var bare players.Player
	if err := json.Unmarshal(raw, &bare); err == nil && bare.ID != 0 {
		return bare, nil
	}
	return players.Player{}, &NetworkError{Op: OpCreatePlayer, Err: ErrMalformedEnvelope}
}
