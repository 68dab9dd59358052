package hardware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sensorTypeDS18B20 = "DS18B20"

// EvokClient talks to the Evok REST API of a Unipi controller.
// It implements both SensorGateway and ActuatorGateway.
type EvokClient struct {
	baseURL string
	client  *http.Client
}

var (
	_ SensorGateway   = (*EvokClient)(nil)
	_ ActuatorGateway = (*EvokClient)(nil)
)

// NewEvokClient builds a client for the Evok API at host:port.
// The httpTimeout is a transport-level ceiling; per-read bounds are
// enforced by the caller's context.
func NewEvokClient(host string, port int, httpTimeout time.Duration) *EvokClient {
	return &EvokClient{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		client:  &http.Client{Timeout: httpTimeout},
	}
}

type evokDevice struct {
	Dev     string `json:"dev"`
	Type    string `json:"type"`
	Circuit string `json:"circuit"`
}

// Discover lists DS18B20 circuits reported by GET /json/all.
func (c *EvokClient) Discover(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/all", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evok list devices: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evok list devices: unexpected status %s", resp.Status)
	}

	var devices []evokDevice
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("evok list devices: decode: %w", err)
	}

	circuits := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.Dev == "temp" && d.Type == sensorTypeDS18B20 {
			circuits = append(circuits, d.Circuit)
		}
	}
	return circuits, nil
}

// ReadTemperature reads one sensor via GET /json/temp/{circuit}.
// Transport or decode failures map to ErrSensorUnavailable so the control
// loop treats them uniformly as a missing reading.
func (c *EvokClient) ReadTemperature(ctx context.Context, circuit string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/temp/"+circuit, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %v", ErrSensorUnavailable, circuit, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: read %s: status %s", ErrSensorUnavailable, circuit, resp.Status)
	}

	var payload struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: read %s: decode: %v", ErrSensorUnavailable, circuit, err)
	}
	return payload.Value, nil
}

// SetRelay switches a relay via POST /json/ro/{circuit}.
func (c *EvokClient) SetRelay(ctx context.Context, circuit string, on bool) error {
	value := 0
	if on {
		value = 1
	}
	body, err := json.Marshal(map[string]int{"value": value})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/json/ro/"+circuit, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("evok set relay %s: %w", circuit, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("evok set relay %s: unexpected status %s", circuit, resp.Status)
	}
	return nil
}
