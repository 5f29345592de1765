package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/access-console/internal/logic"
	"github.com/sweeney/access-console/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:      50,
		DebounceMs:  300,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPPort:    ":80",
		Display:     "oled",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func getBody(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.ConsoleState{
		Mode:     logic.ModeMenu,
		Selected: logic.ActionUnlock,
		Counts:   logic.Counts{Granted: 5, Denied: 2},
		Faults:   logic.FaultFlags{Buzzer: true},
	})
	tr.SetMQTTConnected(true)

	resp, body := getBody(t, ts.URL+"/index.json")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal([]byte(body), &sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.Mode != "MENU" {
		t.Errorf("Mode: got %q, want MENU", sj.Status.Mode)
	}
	if sj.Status.Selected != "UNLOCK" {
		t.Errorf("Selected: got %q, want UNLOCK", sj.Status.Selected)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Granted != 5 || sj.Status.Counts.Denied != 2 {
		t.Errorf("Counts: got %+v", sj.Status.Counts)
	}
	if len(sj.Status.Faults) != 1 || sj.Status.Faults[0] != "BUZZER" {
		t.Errorf("Faults: got %v", sj.Status.Faults)
	}
	if sj.Status.Config.TickMs != 50 {
		t.Errorf("Config.TickMs: got %d, want 50", sj.Status.Config.TickMs)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.ConsoleState{
		Mode:   logic.ModeLockdown,
		Faults: logic.FaultFlags{Scan: true},
		Results: []logic.StageResult{
			{Stage: logic.StageVoice, Result: logic.ResultPass},
			{Stage: logic.StageIris, Result: logic.ResultFail},
		},
	})
	tr.SetScreen([]string{"SYSTEM", "", "LOCKED"})
	tr.SetFrame(logic.Fill(logic.Red))

	resp, body := getBody(t, ts.URL+"/")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
	for _, want := range []string{"LOCKDOWN", "LOCKED", "SCAN", "VOICE", "IRIS", "#ff0000"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if n := strings.Count(body, "<td style="); n != logic.MatrixSize*logic.MatrixSize {
		t.Errorf("matrix cells: got %d, want 25", n)
	}
}

func TestHTMLNoFaults(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := getBody(t, ts.URL+"/index.html")
	if !strings.Contains(body, "none") {
		t.Error("expected 'none' for empty fault list")
	}
	if !strings.Contains(body, "MENU") {
		t.Error("expected initial MENU mode")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := getBody(t, ts.URL+"/index.html")
	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := getBody(t, ts.URL+"/nonexistent")
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	_, body := getBody(t, ts.URL+"/index.json")
	var sj1 status.StatusJSON
	json.Unmarshal([]byte(body), &sj1)
	if sj1.Status.Halted {
		t.Error("expected Halted=false initially")
	}

	tr.Update(logic.ConsoleState{Mode: logic.ModeMenu, Halted: true, Faults: logic.FaultFlags{Keypad: true}})

	_, body = getBody(t, ts.URL+"/index.json")
	var sj2 status.StatusJSON
	json.Unmarshal([]byte(body), &sj2)
	if !sj2.Status.Halted {
		t.Error("expected Halted=true after update")
	}
	if len(sj2.Status.Faults) != 1 || sj2.Status.Faults[0] != "KEYPAD" {
		t.Errorf("Faults: got %v", sj2.Status.Faults)
	}
}

func TestFrameRows(t *testing.T) {
	f := logic.EyeGlyph.Paint(logic.Green)
	rows := frameRows(f)
	if len(rows) != logic.MatrixSize {
		t.Fatalf("rows: got %d", len(rows))
	}
	for r, row := range rows {
		for c, px := range row {
			if px != f[r*logic.MatrixSize+c] {
				t.Errorf("pixel %d,%d mismatch", r, c)
			}
		}
	}
}

func TestScreenEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)

	resp, body := getBody(t, ts.URL+"/screen.txt")
	if resp.StatusCode != 200 || body != "" {
		t.Errorf("empty screen: got %d %q", resp.StatusCode, body)
	}

	tr.SetScreen([]string{"ENTER", "CODE", "A: LOCK"})
	resp, body = getBody(t, ts.URL+"/screen.txt")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type: got %q, want text/plain", ct)
	}
	if body != "ENTER\nCODE\nA: LOCK\n" {
		t.Errorf("body: got %q", body)
	}
}

func TestHTMLShowsStepAndDroppedPresses(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.ConsoleState{
		Mode:           logic.ModeKeypadDiagnostic,
		Busy:           true,
		Step:           "keypad-check",
		DroppedPresses: 7,
	})

	_, body := getBody(t, ts.URL+"/")
	if !strings.Contains(body, "<td>keypad-check</td>") {
		t.Error("page missing running step")
	}
	if !strings.Contains(body, "<th>Dropped presses</th><td>7</td>") {
		t.Error("page missing dropped presses")
	}
}
