package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/access-console/internal/logic"
	"github.com/sweeney/access-console/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"hex": status.HexColor,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Access Console</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.fault { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
.screen { background: #000; color: #fff; padding: 8px; white-space: pre; min-height: 4em; }
.matrix { border-collapse: separate; border-spacing: 3px; width: auto; background: #111; }
.matrix td { width: 14px; height: 14px; padding: 0; border: none; border-radius: 50%; }
</style>
</head>
<body>
<h1>Access Console</h1>

<h2>Console</h2>
<table>
<tr><th>Mode</th><td id="mode">{{.Mode}}</td></tr>
<tr><th>Selected</th><td>{{.Console.Selected}}</td></tr>
<tr><th>Busy</th><td>{{if .Console.Busy}}{{.Console.Step}}{{else}}no{{end}}</td></tr>
<tr><th>Halted</th><td class="{{if .Console.Halted}}fault{{else}}ok{{end}}">{{if .Console.Halted}}yes{{else}}no{{end}}</td></tr>
<tr><th>Faults</th><td class="{{if .Faults}}fault{{else}}ok{{end}}">{{range $i, $f := .Faults}}{{if $i}}, {{end}}{{$f}}{{else}}none{{end}}</td></tr>
{{range .Console.Results}}<tr><th>{{.Stage}}</th><td class="{{if eq .Result "PASS"}}ok{{else}}fault{{end}}">{{.Result}}</td></tr>
{{end}}</table>

<h2>Display</h2>
<div class="screen" id="screen">{{range .Screen}}{{.}}
{{end}}</div>

<h2>Matrix</h2>
<table class="matrix" id="matrix">
{{range .Rows}}<tr>{{range .}}<td style="background: {{hex .}}"></td>{{end}}</tr>
{{end}}</table>

<h2>Event Counts</h2>
<table>
<tr><th>Granted</th><td>{{.Console.Counts.Granted}}</td></tr>
<tr><th>Denied</th><td>{{.Console.Counts.Denied}}</td></tr>
<tr><th>Lockdowns</th><td>{{.Console.Counts.Lockdowns}}</td></tr>
<tr><th>Unlocks</th><td>{{.Console.Counts.Unlocks}}</td></tr>
<tr><th>Diagnostics</th><td>{{.Console.Counts.Diagnostics}}</td></tr>
<tr><th>Ignored presses</th><td>{{.Console.Counts.IgnoredPresses}}</td></tr>
<tr><th>Dropped presses</th><td>{{.Console.DroppedPresses}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Config.Serial}}<tr><th>Serial</th><td>{{.Config.Serial}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func frameRows(f logic.Frame) [][]logic.RGB {
	rows := make([][]logic.RGB, logic.MatrixSize)
	for r := range rows {
		rows[r] = f[r*logic.MatrixSize : (r+1)*logic.MatrixSize]
	}
	return rows
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	mode := string(snap.Console.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}
	data := struct {
		status.Snapshot
		Mode   string
		Faults []logic.Fault
		Rows   [][]logic.RGB
		Uptime time.Duration
	}{
		Snapshot: snap,
		Mode:     mode,
		Faults:   snap.Console.Faults.Latched(),
		Rows:     frameRows(snap.Frame),
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
