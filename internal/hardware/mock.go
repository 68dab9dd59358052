package hardware

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Thermal model for the simulation, in °C per minute.
const (
	simRiseRate = 0.5
	simFallRate = 0.1
	simMaxTempC = 85.0
	simMinTempC = 20.0
	simJitterC  = 0.2
)

// SimulatedClient is an in-memory stand-in for the Evok API. Three virtual
// DS18B20 sensors drift up while the heating relay is on and down while it
// is off. It implements both SensorGateway and ActuatorGateway.
type SimulatedClient struct {
	mu           sync.Mutex
	temps        map[string]float64
	relays       map[string]bool
	relayHeating string
	lastUpdate   time.Time
	rng          *rand.Rand

	failedSensors map[string]bool
	relayErr      error
}

var (
	_ SensorGateway   = (*SimulatedClient)(nil)
	_ ActuatorGateway = (*SimulatedClient)(nil)
)

// NewSimulatedClient creates a simulation whose thermal model reacts to the
// given heating relay circuit.
func NewSimulatedClient(relayHeating string) *SimulatedClient {
	return &SimulatedClient{
		temps: map[string]float64{
			"28-00000a1b2c3d": 58.5,
			"28-00000a1b2c4e": 59.0,
			"28-00000a1b2c5f": 58.8,
		},
		relays:        map[string]bool{},
		relayHeating:  relayHeating,
		lastUpdate:    time.Now(),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		failedSensors: map[string]bool{},
	}
}

func (c *SimulatedClient) Discover(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	circuits := make([]string, 0, len(c.temps))
	for id := range c.temps {
		circuits = append(circuits, id)
	}
	return circuits, nil
}

func (c *SimulatedClient) ReadTemperature(ctx context.Context, circuit string) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance(time.Now())

	if c.failedSensors[circuit] {
		return 0, fmt.Errorf("%w: simulated failure on %s", ErrSensorUnavailable, circuit)
	}
	temp, ok := c.temps[circuit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown circuit %s", ErrSensorUnavailable, circuit)
	}
	temp += c.rng.Float64()*2*simJitterC - simJitterC
	c.temps[circuit] = temp
	return temp, nil
}

func (c *SimulatedClient) SetRelay(ctx context.Context, circuit string, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.relayErr != nil {
		return c.relayErr
	}
	c.relays[circuit] = on
	return nil
}

// RelayState reports the current simulated state of a relay.
func (c *SimulatedClient) RelayState(circuit string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relays[circuit]
}

// SetTemperature pins a virtual sensor to a value. Test hook.
func (c *SimulatedClient) SetTemperature(circuit string, tempC float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.temps[circuit] = tempC
	c.lastUpdate = time.Now()
}

// FailSensor toggles a simulated failure for one sensor. Test hook.
func (c *SimulatedClient) FailSensor(circuit string, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedSensors[circuit] = failed
}

// FailRelays makes every SetRelay call return err (nil restores). Test hook.
func (c *SimulatedClient) FailRelays(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relayErr = err
}

// advance moves the thermal model forward to now. Caller holds mu.
func (c *SimulatedClient) advance(now time.Time) {
	minutes := now.Sub(c.lastUpdate).Minutes()
	if minutes <= 0 {
		return
	}
	c.lastUpdate = now

	heating := c.relays[c.relayHeating]
	for id, temp := range c.temps {
		if heating {
			temp += simRiseRate * minutes
			if temp > simMaxTempC {
				temp = simMaxTempC
			}
		} else {
			temp -= simFallRate * minutes
			if temp < simMinTempC {
				temp = simMinTempC
			}
		}
		c.temps[id] = temp
	}
}
