// Package watch implements a remote monitor for a running terrasim. It
// observes the territory via the observer API, triages its health and keeps
// a short history of past observations.
package watch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/terra-world/internal/engine"
	"github.com/talgya/terra-world/internal/telemetry"
)

// Status mirrors GET /api/v1/status.
type Status struct {
	Name          string              `json:"name"`
	Run           int                 `json:"run"`
	Running       bool                `json:"running"`
	Step          int                 `json:"step"`
	Territory     string              `json:"territory"`
	Energy        int                 `json:"energy"`
	Results       int                 `json:"results"`
	StreamClients int                 `json:"stream_clients"`
	Stats         telemetry.StepStats `json:"stats"`
}

// Observation holds all data collected during one poll.
type Observation struct {
	Status  Status             `json:"status"`
	Robot   engine.RobotStatus `json:"robot"`
	Events  []engine.Event     `json:"events"`
	Results []engine.Result    `json:"results"`
}

// Observer fetches territory state from the API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Observe fetches status, robot, recent events and recent results.
func (o *Observer) Observe() (*Observation, error) {
	obs := &Observation{}

	if err := o.fetchJSON("/api/v1/status", &obs.Status); err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	if err := o.fetchJSON("/api/v1/robot", &obs.Robot); err != nil {
		return nil, fmt.Errorf("fetch robot: %w", err)
	}
	if err := o.fetchJSON("/api/v1/events", &obs.Events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	if err := o.fetchJSON("/api/v1/results?limit=20", &obs.Results); err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}

	return obs, nil
}

// Ready reports whether the status endpoint answers.
func (o *Observer) Ready() bool {
	resp, err := o.HTTPClient.Get(o.BaseURL + "/api/v1/status")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (o *Observer) fetchJSON(path string, target any) error {
	resp, err := o.HTTPClient.Get(o.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
