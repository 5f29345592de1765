// Package mqtt publishes the console's audit trail and lifecycle events, with
// an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// Topic is the MQTT topic for console audit events.
const Topic = "security/console/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "security/console/system"

// Lifecycle event names.
const (
	EventStartup     = "STARTUP"
	EventShutdown    = "SHUTDOWN"
	EventHeartbeat   = "HEARTBEAT"
	EventReconnected = "RECONNECTED"
)

// ReasonDisconnect is the shutdown reason carried by the last-will message.
const ReasonDisconnect = "MQTT_DISCONNECT"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a console audit event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp time.Time
	Event     string
	Reason    string         // e.g., "SIGTERM" (shutdown only)
	Config    *SystemConfig  // startup only
	Heartbeat *HeartbeatInfo // heartbeat only
	Retained  bool
}

// SystemConfig describes the running configuration, sent at startup.
type SystemConfig struct {
	TickMs      int64  `json:"tick_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	Serial      string `json:"serial,omitempty"`
}

// HeartbeatInfo is the periodic health summary.
type HeartbeatInfo struct {
	UptimeSeconds int64           `json:"uptime_seconds"`
	Mode          string          `json:"mode"`
	Halted        bool            `json:"halted"`
	Faults        []string        `json:"faults"`
	EventCounts   HeartbeatCounts `json:"event_counts"`
}

// HeartbeatCounts mirrors logic.Counts.
type HeartbeatCounts struct {
	Granted        int `json:"granted"`
	Denied         int `json:"denied"`
	Lockdowns      int `json:"lockdowns"`
	Unlocks        int `json:"unlocks"`
	Diagnostics    int `json:"diagnostics"`
	IgnoredPresses int `json:"ignored_presses"`
}

// NewHeartbeat builds a HeartbeatInfo from a console snapshot.
func NewHeartbeat(uptime time.Duration, st logic.ConsoleState) *HeartbeatInfo {
	faults := []string{}
	for _, f := range st.Faults.Latched() {
		faults = append(faults, string(f))
	}
	return &HeartbeatInfo{
		UptimeSeconds: int64(uptime.Seconds()),
		Mode:          string(st.Mode),
		Halted:        st.Halted,
		Faults:        faults,
		EventCounts: HeartbeatCounts{
			Granted:        st.Counts.Granted,
			Denied:         st.Counts.Denied,
			Lockdowns:      st.Counts.Lockdowns,
			Unlocks:        st.Counts.Unlocks,
			Diagnostics:    st.Counts.Diagnostics,
			IgnoredPresses: st.Counts.IgnoredPresses,
		},
	}
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Console ConsolePayload `json:"console"`
}

// ConsolePayload contains the audit event details.
type ConsolePayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode"`
	Detail    string `json:"detail,omitempty"`
}

// FormatPayload creates the JSON payload for an audit event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Console: ConsolePayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Mode:      string(event.Mode),
			Detail:    event.Detail,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	Reason    string         `json:"reason,omitempty"`
	Config    *SystemConfig  `json:"config,omitempty"`
	Heartbeat *HeartbeatInfo `json:"heartbeat,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Config:    event.Config,
			Heartbeat: event.Heartbeat,
		},
	}
	return json.Marshal(payload)
}

// WillEvent is the shutdown event the broker publishes if the console drops
// off without disconnecting.
func WillEvent(now time.Time) SystemEvent {
	return SystemEvent{
		Timestamp: now,
		Event:     EventShutdown,
		Reason:    ReasonDisconnect,
	}
}
