package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/docreflect/internal/config"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
)

// Reporter publishes broken-link findings to an external sink.
type Reporter interface {
	Report(d Diagnostic) error
	Close() error
}

// BrokenLinkEvent is the wire record published per finding so downstream
// dashboards can aggregate unresolved references across runs.
type BrokenLinkEvent struct {
	Link       string `json:"link"`
	Source     string `json:"source"`
	Reflection string `json:"reflection"`
	Suggestion string `json:"suggestion,omitempty"`
	Message    string `json:"message"`

	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Aggregated across runs via the KV bucket.
	TimesSeen int       `json:"times_seen"`
	FirstSeen time.Time `json:"first_seen,omitzero"`
}

// NATSReporter publishes findings to a JetStream subject and keeps one KV
// entry per distinct finding for cross-run aggregation.
type NATSReporter struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
	runID   string
}

func NewNATSReporter(cfg config.ReportingConfig, runID string) (*NATSReporter, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("broken link reporting is not configured")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	r := &NATSReporter{
		conn:    conn,
		js:      js,
		subject: cfg.Subject,
		runID:   runID,
	}
	if err := r.initBucket(cfg.Bucket); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("Broken link reporting enabled",
		logfields.URL(cfg.NATSURL),
		logfields.Subject(cfg.Subject),
		slog.String("bucket", cfg.Bucket))
	return r, nil
}

func (r *NATSReporter) initBucket(bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := r.js.KeyValue(ctx, bucket)
	if err == nil {
		r.kv = kv
		return nil
	}

	kv, err = r.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Broken link reports",
		History:     1,
	})
	if err != nil {
		return fmt.Errorf("create KV bucket: %w", err)
	}
	r.kv = kv
	return nil
}

// Report publishes the finding. The KV aggregation is best effort: a publish
// failure is an error, a KV failure is not.
func (r *NATSReporter) Report(d Diagnostic) error {
	event := BrokenLinkEvent{
		Link:       d.Link,
		Source:     string(d.Source),
		Reflection: d.Reflection,
		Suggestion: d.Suggestion,
		Message:    d.Message,
		RunID:      r.runID,
		Timestamp:  time.Now(),
	}
	r.aggregate(&event)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.js.Publish(ctx, r.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.Debug("Published broken link event",
		logfields.Subject(d.Link),
		logfields.Reflection(d.Reflection))
	return nil
}

// aggregate fills TimesSeen/FirstSeen from the KV bucket and writes the
// updated entry back.
func (r *NATSReporter) aggregate(event *BrokenLinkEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := reportKey(event.Reflection, event.Link)
	event.TimesSeen = 1
	event.FirstSeen = event.Timestamp

	if entry, err := r.kv.Get(ctx, key); err == nil {
		var prev BrokenLinkEvent
		if err := json.Unmarshal(entry.Value(), &prev); err == nil {
			event.TimesSeen = prev.TimesSeen + 1
			if !prev.FirstSeen.IsZero() {
				event.FirstSeen = prev.FirstSeen
			}
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if _, err := r.kv.Put(ctx, key, data); err != nil {
		slog.Debug("Broken link KV update failed", logfields.Error(err))
	}
}

func (r *NATSReporter) Close() error {
	if r.conn != nil {
		r.conn.Close()
	}
	return nil
}

// reportKey flattens a finding into a valid KV key.
func reportKey(reflection, link string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-', c == '_', c == '.':
			return c
		default:
			return '_'
		}
	}, reflection+"."+link)
}
