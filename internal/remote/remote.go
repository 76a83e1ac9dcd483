// Package remote exposes playback control over MQTT.
//
// Commands are plain text published to <topic>/cmd:
//
//	start
//	stop
//	fps <n>
//	load <folder>
//	clear
//	refresh
//
// Every engine status is published, retained, as JSON to <topic>/status.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/JPM1118/animback/internal/frames"
	"github.com/JPM1118/animback/internal/player"
)

// ErrUnknownCommand is returned by Handle for unrecognised commands.
var ErrUnknownCommand = errors.New("unknown command")

// ConnectTimeout bounds the initial broker connection.
const ConnectTimeout = 10 * time.Second

// Target is the playback engine controlled remotely.
type Target interface {
	Load(frames.Set) error
	SetFrameRate(fps int) error
	Start() error
	Stop()
	Clear() error
	Refresh() error
}

// Config holds broker settings.
type Config struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

// Remote relays MQTT commands to a Target and publishes its statuses.
type Remote struct {
	client mqtt.Client
	topic  string
	target Target
	log    *slog.Logger
}

// New returns a Remote for target. The client is not connected until
// Connect is called.
func New(cfg Config, target Target, log *slog.Logger) *Remote {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Remote{
		topic:  strings.TrimSuffix(cfg.Topic, "/"),
		target: target,
		log:    log.With(slog.String("component", "remote")),
	}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID("animback-" + uuid.NewString()).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(r.handleOnConnect)
	r.client = mqtt.NewClient(options)
	return r
}

// CommandTopic returns the topic commands are read from.
func (r *Remote) CommandTopic() string { return r.topic + "/cmd" }

// StatusTopic returns the topic statuses are published to.
func (r *Remote) StatusTopic() string { return r.topic + "/status" }

// Connect connects to the broker.
func (r *Remote) Connect() error {
	token := r.client.Connect()
	if !token.WaitTimeout(ConnectTimeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Run publishes statuses from updates until ctx is done or updates is
// closed.
func (r *Remote) Run(ctx context.Context, updates <-chan player.Status) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			r.Publish(st)
		}
	}
}

// Publish sends st as a retained message on the status topic.
func (r *Remote) Publish(st player.Status) {
	b, err := json.Marshal(newPayload(st))
	if err != nil {
		r.log.LogAttrs(context.Background(), slog.LevelError, "marshal status", slog.Any("error", err))
		return
	}
	token := r.client.Publish(r.StatusTopic(), 0, true, b)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			r.log.LogAttrs(context.Background(), slog.LevelWarn, "publish status", slog.Any("error", err))
		}
	}()
}

// Close disconnects from the broker.
func (r *Remote) Close() {
	r.client.Disconnect(250)
}

func (r *Remote) handleOnConnect(client mqtt.Client) {
	r.log.LogAttrs(context.Background(), slog.LevelInfo, "connected", slog.String("topic", r.CommandTopic()))
	token := client.Subscribe(r.CommandTopic(), 1, r.handleMessage)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			r.log.LogAttrs(context.Background(), slog.LevelError, "subscribe", slog.Any("error", err))
		}
	}()
}

func (r *Remote) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	cmd := string(msg.Payload())
	r.log.LogAttrs(context.Background(), slog.LevelDebug, "command", slog.String("cmd", cmd))
	if err := Handle(r.target, cmd); err != nil {
		r.log.LogAttrs(context.Background(), slog.LevelWarn, "command", slog.String("cmd", cmd), slog.Any("error", err))
	}
}

// Handle parses a text command and applies it to t.
func Handle(t Target, cmd string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(verb) {
	case "start":
		return t.Start()
	case "stop":
		t.Stop()
		return nil
	case "fps":
		fps, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("fps: %w", err)
		}
		return t.SetFrameRate(fps)
	case "load":
		set, err := frames.Scan(arg)
		if err != nil {
			return err
		}
		return t.Load(set)
	case "clear":
		return t.Clear()
	case "refresh":
		return t.Refresh()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

type payload struct {
	Kind    string    `json:"kind"`
	Text    string    `json:"text"`
	Current int       `json:"current,omitempty"`
	Total   int       `json:"total,omitempty"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

func newPayload(st player.Status) payload {
	p := payload{
		Kind:    st.Kind.String(),
		Text:    st.String(),
		Current: st.Current,
		Total:   st.Total,
		Time:    st.Time,
	}
	if st.Err != nil {
		p.Error = st.Err.Error()
	}
	return p
}
