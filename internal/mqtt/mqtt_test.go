package mqtt

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

func TestTopics(t *testing.T) {
	if Topic != "security/console/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "security/console/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      logic.EventAccessGranted,
		Mode:      logic.ModePasscodeEntry,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"console":{"timestamp":"2026-02-02T22:18:12Z","event":"ACCESS_GRANTED","mode":"PASSCODE_ENTRY"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatPayloadEventTypes(t *testing.T) {
	tests := []struct {
		eventType  logic.EventType
		mode       logic.Mode
		detail     string
		wantDetail bool
	}{
		{logic.EventAccessDenied, logic.ModePasscodeEntry, "", false},
		{logic.EventVoiceFail, logic.ModePasscodeEntry, "", false},
		{logic.EventIrisPass, logic.ModePasscodeEntry, "", false},
		{logic.EventLockdown, logic.ModeLockdown, "", false},
		{logic.EventUnlocked, logic.ModeLockdown, "", false},
		{logic.EventFaultLatched, logic.ModeKeypadDiagnostic, "BUZZER", true},
		{logic.EventHalted, logic.ModeMenu, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			payload, err := FormatPayload(logic.Event{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				Mode:      tt.mode,
				Detail:    tt.detail,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed map[string]map[string]interface{}
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			c := parsed["console"]
			if c["event"] != string(tt.eventType) {
				t.Errorf("event: got %v, want %s", c["event"], tt.eventType)
			}
			if c["mode"] != string(tt.mode) {
				t.Errorf("mode: got %v, want %s", c["mode"], tt.mode)
			}
			if _, ok := c["detail"]; ok != tt.wantDetail {
				t.Errorf("detail present: got %v, want %v", ok, tt.wantDetail)
			}
		})
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	payload, err := FormatPayload(logic.Event{
		Timestamp: time.Date(2026, 2, 3, 1, 0, 0, 0, loc),
		Type:      logic.EventLockdown,
		Mode:      logic.ModeLockdown,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Console.Timestamp != "2026-02-02T23:00:00Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Console.Timestamp)
	}
}

func TestFormatSystemPayloadStartupExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     EventStartup,
		Config: &SystemConfig{
			TickMs:      50,
			DebounceMs:  300,
			HeartbeatMs: 900000,
			Broker:      "tcp://192.168.1.200:1883",
		},
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T19:05:51Z","event":"STARTUP","config":{"tick_ms":50,"debounce_ms":300,"heartbeat_ms":900000,"broker":"tcp://192.168.1.200:1883"}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadShutdownOmitsConfig(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 10, 0, 0, time.UTC),
		Event:     EventShutdown,
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T19:10:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadHeartbeat(t *testing.T) {
	st := logic.ConsoleState{
		Mode:   logic.ModeMenu,
		Faults: logic.FaultFlags{Buzzer: true},
		Counts: logic.Counts{Granted: 3, Denied: 1, Lockdowns: 1, Unlocks: 1, Diagnostics: 2},
	}
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 4, 12, 15, 0, 0, time.UTC),
		Event:     EventHeartbeat,
		Heartbeat: NewHeartbeat(15*time.Minute, st),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-04T12:15:00Z","event":"HEARTBEAT","heartbeat":{"uptime_seconds":900,"mode":"MENU","halted":false,"faults":["BUZZER"],"event_counts":{"granted":3,"denied":1,"lockdowns":1,"unlocks":1,"diagnostics":2,"ignored_presses":0}}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestNewHeartbeatNoFaultsIsEmptyList(t *testing.T) {
	hb := NewHeartbeat(time.Second, logic.ConsoleState{Mode: logic.ModeMenu})
	data, err := json.Marshal(hb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"faults":[]`) {
		t.Errorf("expected empty faults list, got %s", data)
	}
}

func TestWillEvent(t *testing.T) {
	payload, err := FormatSystemPayload(WillEvent(time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	events := []logic.Event{
		{Timestamp: time.Now(), Type: logic.EventLockdown, Mode: logic.ModeLockdown},
		{Timestamp: time.Now(), Type: logic.EventUnlocked, Mode: logic.ModeLockdown},
	}
	for _, e := range events {
		if err := f.Publish(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: EventStartup, Retained: true})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: EventHeartbeat})

	if len(f.Events) != 2 || len(f.Payloads) != 2 {
		t.Fatalf("expected 2 events and payloads, got %d and %d", len(f.Events), len(f.Payloads))
	}
	if f.Events[0].Type != logic.EventLockdown || f.Events[1].Type != logic.EventUnlocked {
		t.Error("events not in publish order")
	}
	names := f.SystemEventNames()
	if len(names) != 2 || names[0] != EventStartup || names[1] != EventHeartbeat {
		t.Errorf("system events: got %v", names)
	}
	if !f.SystemEvents[0].Retained || f.SystemEvents[1].Retained {
		t.Error("retained flag not recorded")
	}

	f.Close()
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(logic.Event{Type: logic.EventHalted}); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishSystem(SystemEvent{Event: EventShutdown}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestSinkRecordsAndLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	f := NewFakePublisher()
	s := &Sink{Pub: f, Log: logger.NewLogger(log.New(&buf, "", 0), logger.LogLevelWarning)}

	s.Record(logic.Event{Timestamp: time.Now(), Type: logic.EventAccessGranted, Mode: logic.ModePasscodeEntry})
	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}

	f.PublishError = errors.New("broker down")
	s.Record(logic.Event{Timestamp: time.Now(), Type: logic.EventAccessDenied})
	if !strings.Contains(buf.String(), "ACCESS_DENIED") || !strings.Contains(buf.String(), "broker down") {
		t.Errorf("expected failure in log, got %q", buf.String())
	}

	(&Sink{}).Record(logic.Event{Type: logic.EventHalted})
}
