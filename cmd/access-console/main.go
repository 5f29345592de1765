// Command access-console runs the access console: a menu-driven passcode
// terminal with secondary verification, lockdown and self-diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/access-console/internal/channel"
	"github.com/sweeney/access-console/internal/console"
	"github.com/sweeney/access-console/internal/display"
	"github.com/sweeney/access-console/internal/gpio"
	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
	"github.com/sweeney/access-console/internal/mqtt"
	"github.com/sweeney/access-console/internal/status"
	"github.com/sweeney/access-console/internal/web"
)

type options struct {
	tick       time.Duration
	debounce   time.Duration
	console    console.Config
	serial     string
	baud       int
	gpiochip   string
	pins       gpio.Pins
	adcDevice  string
	i2c        string
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	opts, level, err := parseFlags(os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	l := newLogger(level)
	if err := run(opts, l); err != nil {
		l.Fatalf("fatal: %v", err)
	}
}

// parseFlags reads the command line. MQTT and the HTTP status server stay
// off unless an address is given.
func parseFlags(args []string) (options, logger.LogLevel, error) {
	opts := options{console: console.DefaultConfig(), pins: gpio.DefaultPins()}
	var threshold uint
	var logLevel int

	fs := flag.NewFlagSet("access-console", flag.ContinueOnError)
	fs.DurationVar(&opts.tick, "tick", 50*time.Millisecond, "Main loop tick interval")
	fs.DurationVar(&opts.debounce, "debounce", logic.DefaultDebounceWindow, "Button debounce window")
	fs.StringVar(&opts.console.PassCode, "code", opts.console.PassCode, "Access passcode")
	fs.StringVar(&opts.console.UnlockCode, "unlock-code", opts.console.UnlockCode, "Lockdown release code")
	fs.UintVar(&threshold, "sound-threshold", uint(opts.console.SoundThreshold), "Microphone level that counts as sound (0-65535)")
	fs.StringVar(&opts.serial, "serial", "", "Serial device for code channel B (empty to disable)")
	fs.IntVar(&opts.baud, "baud", 9600, "Serial baud rate")
	fs.StringVar(&opts.gpiochip, "gpiochip", "gpiochip0", "GPIO character device")
	fs.IntVar(&opts.pins.ButtonA, "pin-a", opts.pins.ButtonA, "BCM pin for button A")
	fs.IntVar(&opts.pins.ButtonB, "pin-b", opts.pins.ButtonB, "BCM pin for button B")
	fs.IntVar(&opts.pins.Joystick, "pin-joystick", opts.pins.Joystick, "BCM pin for the joystick button")
	fs.IntVar(&opts.pins.Red, "pin-red", opts.pins.Red, "BCM pin for the red LED")
	fs.IntVar(&opts.pins.Green, "pin-green", opts.pins.Green, "BCM pin for the green LED")
	fs.IntVar(&opts.pins.Blue, "pin-blue", opts.pins.Blue, "BCM pin for the blue LED")
	fs.IntVar(&opts.pins.Buzzer1, "pin-buzzer1", opts.pins.Buzzer1, "BCM pin for buzzer 1")
	fs.IntVar(&opts.pins.Buzzer2, "pin-buzzer2", opts.pins.Buzzer2, "BCM pin for buzzer 2")
	fs.StringVar(&opts.adcDevice, "adc-device", "iio:device0", "IIO device for the joystick and microphone")
	fs.StringVar(&opts.i2c, "i2c", "", `I2C bus for the OLED ("off" logs screens instead)`)
	fs.StringVar(&opts.broker, "broker", "", "MQTT broker address, e.g. tcp://192.168.1.200:1883 (empty to disable)")
	fs.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	fs.StringVar(&opts.httpAddr, "http", "", "HTTP status address, e.g. :80 (empty to disable)")
	fs.BoolVar(&opts.printState, "print-state", false, "Print current input state and exit")
	fs.IntVar(&logLevel, "log", int(logger.LogLevelInfo), "Log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")

	if err := fs.Parse(args); err != nil {
		return options{}, 0, err
	}
	if threshold > math.MaxUint16 {
		return options{}, 0, fmt.Errorf("-sound-threshold %d out of range (max %d)", threshold, math.MaxUint16)
	}
	opts.console.SoundThreshold = uint16(threshold)
	return opts, logger.LogLevel(logLevel), nil
}

func newLogger(level logger.LogLevel) *logger.Logger {
	var std *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// systemd journal adds its own timestamps
		std = log.New(os.Stdout, "", 0)
	} else {
		std = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}
	return logger.NewLogger(std, level)
}

func run(opts options, l *logger.Logger) error {
	consoleLog := l.WithTag("console")
	channelLog := l.WithTag("channel")
	displayLog := l.WithTag("display")
	mqttLog := l.WithTag("mqtt")

	queue := console.NewQueue()
	dispatcher := console.NewDispatcher(queue, opts.debounce, consoleLog)

	board, err := gpio.NewRealBoard(opts.gpiochip, opts.pins, gpio.NewADC(opts.adcDevice),
		func(b logic.Button, at time.Time) { dispatcher.HandleEdge(b, at) }, l.WithTag("gpio"))
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer board.Close()

	if opts.printState {
		return printState(os.Stdout, board)
	}

	// Code channels
	var chanA, chanB console.Channel
	stdin := channel.OpenConsole(channelLog)
	defer stdin.Close()
	chanA = stdin
	streams := []*channel.Stream{stdin}
	if opts.serial != "" {
		cfg := channel.DefaultSerialConfig(opts.serial)
		cfg.Baud = opts.baud
		port, err := channel.OpenSerial(cfg, channelLog)
		if err != nil {
			return fmt.Errorf("init code channel B: %w", err)
		}
		defer port.Close()
		chanB = port
		streams = append(streams, port)
	}

	// Status tracker
	displayName := "oled"
	if opts.i2c == "off" {
		displayName = "log"
	}
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      opts.tick.Milliseconds(),
		DebounceMs:  opts.debounce.Milliseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPPort:    opts.httpAddr,
		Serial:      opts.serial,
		Display:     displayName,
	})

	// Display and matrix
	mirror := &display.Mirror{
		Matrix:   display.NewLogMatrix(displayLog),
		OnScreen: tracker.SetScreen,
		OnFrame:  tracker.SetFrame,
	}
	if opts.i2c == "off" {
		mirror.Screen = display.NewLogScreen(displayLog)
	} else {
		oled, err := display.OpenOLED(opts.i2c, displayLog)
		if err != nil {
			return fmt.Errorf("init display: %w", err)
		}
		defer oled.Close()
		mirror.Screen = oled
	}

	// MQTT
	var publisher mqtt.Publisher
	var connStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		hostname, _ := os.Hostname()
		rp, err := mqtt.NewRealPublisher(opts.broker, "access-console-"+hostname, mqttLog)
		if err != nil {
			l.Warnf("mqtt unavailable, continuing without audit stream: %v", err)
		} else {
			defer rp.Close()
			publisher = rp
			connStatus = rp
		}
	}

	ctrl := console.NewController(opts.console,
		console.Outputs{Display: mirror, Matrix: mirror, Indicators: board},
		board, console.NewReader(chanA, chanB, channelLog), queue, consoleLog)
	if publisher != nil {
		ctrl.SetRecorder(&mqtt.Sink{Pub: publisher, Log: mqttLog})
	}

	if publisher != nil {
		startup := mqtt.SystemEvent{
			Timestamp: time.Now(),
			Event:     mqtt.EventStartup,
			Retained:  true,
			Config: &mqtt.SystemConfig{
				TickMs:      opts.tick.Milliseconds(),
				DebounceMs:  opts.debounce.Milliseconds(),
				HeartbeatMs: opts.heartbeat.Milliseconds(),
				Broker:      opts.broker,
				Serial:      opts.serial,
			},
		}
		if err := publisher.PublishSystem(startup); err != nil {
			l.Warnf("failed to publish startup event: %v", err)
		} else {
			l.Infof("published startup event")
		}
	}

	// HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		l.Infof("http status server listening on %s", opts.httpAddr)
	}

	l.Infof("started: tick=%v debounce=%v broker=%s heartbeat=%v serial=%q display=%s",
		opts.tick, opts.debounce, opts.broker, opts.heartbeat, opts.serial, displayName)

	ticker := time.NewTicker(opts.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	loop := &mainLoop{
		ctrl:       ctrl,
		tracker:    tracker,
		publisher:  publisher,
		connStatus: connStatus,
		streams:    streams,
		heartbeat:  opts.heartbeat,
		now:        time.Now,
		log:        l,
	}
	return loop.run(ticker.C, sigCh)
}

// mainLoop owns the controller. Every tick advances the console once and
// refreshes the status tracker.
type mainLoop struct {
	ctrl       *console.Controller
	tracker    *status.Tracker
	publisher  mqtt.Publisher
	connStatus mqtt.ConnectionStatus
	streams    []*channel.Stream
	heartbeat  time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func (m *mainLoop) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := m.now()
	lastHeartbeat := startTime
	m.ctrl.Start()
	m.refresh()

	for {
		select {
		case s := <-sig:
			m.log.Infof("received %v, shutting down", s)
			m.publishSystem(mqtt.SystemEvent{
				Timestamp: m.now(),
				Event:     mqtt.EventShutdown,
				Reason:    signalName(s),
				Retained:  true,
			})
			return nil

		case <-tick:
			t := m.now()
			m.ctrl.Tick(t)
			m.refresh()

			if m.heartbeat > 0 && t.Sub(lastHeartbeat) >= m.heartbeat {
				lastHeartbeat = t
				st := m.ctrl.State()
				m.log.Infof("heartbeat: mode=%s halted=%v granted=%d denied=%d lockdowns=%d dropped_presses=%d",
					st.Mode, st.Halted, st.Counts.Granted, st.Counts.Denied, st.Counts.Lockdowns, st.DroppedPresses)
				m.logStreams()
				m.publishSystem(mqtt.SystemEvent{
					Timestamp: t,
					Event:     mqtt.EventHeartbeat,
					Heartbeat: mqtt.NewHeartbeat(t.Sub(startTime), st),
				})
			}
		}
	}
}

// logStreams reports the health of each code channel.
func (m *mainLoop) logStreams() {
	for _, s := range m.streams {
		select {
		case <-s.Done():
			m.log.Warnf("heartbeat: channel %s closed, dropped=%d", s.Name(), s.Dropped())
		default:
			m.log.Infof("heartbeat: channel %s open, dropped=%d", s.Name(), s.Dropped())
		}
	}
}

func (m *mainLoop) refresh() {
	if m.tracker == nil {
		return
	}
	m.tracker.Update(m.ctrl.State())
	if m.connStatus != nil {
		m.tracker.SetMQTTConnected(m.connStatus.IsConnected())
	}
}

func (m *mainLoop) publishSystem(e mqtt.SystemEvent) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishSystem(e); err != nil {
		m.log.Warnf("failed to publish %s event: %v", e.Event, err)
		return
	}
	m.log.Debugf("published %s event", e.Event)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
