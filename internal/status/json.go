package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/access-console/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Mode          string       `json:"mode"`
	Selected      string       `json:"selected"`
	Busy          bool         `json:"busy"`
	Step          string       `json:"step,omitempty"`
	Halted        bool         `json:"halted"`
	Faults        []string     `json:"faults"`
	Results       []ResultJSON `json:"results"`
	Screen        []string     `json:"screen"`
	Matrix        []string     `json:"matrix"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Config        ConfigJSON   `json:"config"`
}

// ResultJSON is one verification stage outcome of the last access attempt.
type ResultJSON struct {
	Stage  string `json:"stage"`
	Result string `json:"result"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of console counters.
type CountsJSON struct {
	Granted        int   `json:"granted"`
	Denied         int   `json:"denied"`
	Lockdowns      int   `json:"lockdowns"`
	Unlocks        int   `json:"unlocks"`
	Diagnostics    int   `json:"diagnostics"`
	IgnoredPresses int   `json:"ignored_presses"`
	DroppedPresses int64 `json:"dropped_presses"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Serial      string `json:"serial,omitempty"`
	Display     string `json:"display"`
}

// HexColor formats c as #rrggbb.
func HexColor(c logic.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func buildInner(snap Snapshot) StatusInner {
	st := snap.Console
	mode := string(st.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	faults := []string{}
	for _, f := range st.Faults.Latched() {
		faults = append(faults, string(f))
	}
	results := []ResultJSON{}
	for _, r := range st.Results {
		results = append(results, ResultJSON{Stage: string(r.Stage), Result: string(r.Result)})
	}
	screen := snap.Screen
	if screen == nil {
		screen = []string{}
	}
	matrix := make([]string, len(snap.Frame))
	for i, c := range snap.Frame {
		matrix[i] = HexColor(c)
	}

	return StatusInner{
		Mode:          mode,
		Selected:      string(st.Selected),
		Busy:          st.Busy,
		Step:          st.Step,
		Halted:        st.Halted,
		Faults:        faults,
		Results:       results,
		Screen:        screen,
		Matrix:        matrix,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Granted:        st.Counts.Granted,
			Denied:         st.Counts.Denied,
			Lockdowns:      st.Counts.Lockdowns,
			Unlocks:        st.Counts.Unlocks,
			Diagnostics:    st.Counts.Diagnostics,
			IgnoredPresses: st.Counts.IgnoredPresses,
			DroppedPresses: st.DroppedPresses,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Serial:      snap.Config.Serial,
			Display:     snap.Config.Display,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
