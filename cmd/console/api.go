package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/npc"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// apiClient talks to the house API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, client *http.Client) *apiClient {
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

func (c *apiClient) testConnection() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends body as JSON and decodes a 2xx answer into out. Any other status
// is turned into an error carrying the API's message.
func (c *apiClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

type housesResponse struct {
	Houses    []house.HouseInfo `json:"houses"`
	Available []house.PoolEntry `json:"available_houses"`
}

type residentsResponse struct {
	Residents []npc.Snapshot `json:"residents"`
}

type restoreResponse struct {
	Message  string       `json:"message"`
	Resident npc.Snapshot `json:"resident"`
}

type itemResponse struct {
	Result   house.Result `json:"result"`
	Resident npc.Snapshot `json:"resident"`
}

type tickResponse struct {
	Outcomes []npc.Outcome `json:"outcomes"`
}

type saveResponse struct {
	ID uuid.UUID `json:"id"`
}

type savesResponse struct {
	Saves []uuid.UUID `json:"saves"`
}

func housePath(name, action string) string {
	p := "/v1/houses/" + url.PathEscape(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *apiClient) listHouses() (*housesResponse, error) {
	var out housesResponse
	return &out, c.do(http.MethodGet, "/v1/houses", nil, &out)
}

func (c *apiClient) listResidents() ([]npc.Snapshot, error) {
	var out residentsResponse
	err := c.do(http.MethodGet, "/v1/residents", nil, &out)
	return out.Residents, err
}

func (c *apiClient) addResident(name string, pos house.Point) (npc.Snapshot, error) {
	var out npc.Snapshot
	err := c.do(http.MethodPost, "/v1/residents", map[string]any{"name": name, "position": pos}, &out)
	return out, err
}

func (c *apiClient) moveResident(name string, pos house.Point) (npc.Snapshot, error) {
	var out npc.Snapshot
	err := c.do(http.MethodPatch, "/v1/residents/"+url.PathEscape(name), map[string]any{"position": pos}, &out)
	return out, err
}

func (c *apiClient) assign(name string) (house.Assignment, error) {
	var out house.Assignment
	err := c.do(http.MethodPost, housePath(name, "assign"), nil, &out)
	return out, err
}

// residentAction runs go-home, enter or exit.
func (c *apiClient) residentAction(name, action string) (npc.Snapshot, error) {
	var out npc.Snapshot
	err := c.do(http.MethodPost, housePath(name, action), nil, &out)
	return out, err
}

func (c *apiClient) restore(name, activity string) (*restoreResponse, error) {
	var out restoreResponse
	return &out, c.do(http.MethodPost, housePath(name, "restore"), map[string]string{"activity": activity}, &out)
}

func (c *apiClient) use(name, category string) (*itemResponse, error) {
	var out itemResponse
	return &out, c.do(http.MethodPost, housePath(name, "use"), map[string]string{"category": category}, &out)
}

func (c *apiClient) interact(name string, x, y int) (*itemResponse, error) {
	var out itemResponse
	return &out, c.do(http.MethodPost, housePath(name, "interact"), map[string]int{"x": x, "y": y}, &out)
}

func (c *apiClient) interior(name string) (*house.Interior, error) {
	var out house.Interior
	return &out, c.do(http.MethodGet, housePath(name, "interior"), nil, &out)
}

func (c *apiClient) tick(drain *float64) ([]npc.Outcome, error) {
	var out tickResponse
	body := map[string]any{}
	if drain != nil {
		body["drain"] = *drain
	}
	err := c.do(http.MethodPost, "/v1/world/tick", body, &out)
	return out.Outcomes, err
}

func (c *apiClient) debug() (string, error) {
	var out string
	err := c.do(http.MethodGet, "/v1/world/debug", nil, &out)
	return out, err
}

// save writes a new slot, or overwrites id when it is not nil.
func (c *apiClient) save(id uuid.UUID) (uuid.UUID, error) {
	path := "/v1/saves"
	if id != uuid.Nil {
		path += "/" + id.String()
	}
	var out saveResponse
	err := c.do(http.MethodPost, path, nil, &out)
	return out.ID, err
}

func (c *apiClient) listSaves() ([]uuid.UUID, error) {
	var out savesResponse
	err := c.do(http.MethodGet, "/v1/saves", nil, &out)
	return out.Saves, err
}

func (c *apiClient) load(id uuid.UUID) error {
	return c.do(http.MethodPost, "/v1/saves/"+id.String()+"/load", nil, nil)
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// listenToSSE connects to the SSE endpoint and streams events to a channel
func (c *apiClient) listenToSSE(ctx context.Context, eventChan chan<- SSEEvent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The stream outlives any request timeout.
	streamClient := &http.Client{Transport: c.http.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()

		if line == "" {
			// Empty line signals end of event
			if currentEvent.Type != "" {
				eventChan <- currentEvent
				currentEvent = SSEEvent{}
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			var data map[string]any
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}
	return nil
}
