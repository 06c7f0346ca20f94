package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityLogName is the file inside the log directory that events are
// appended to.
const ActivityLogName = "activity.log"

// StartActivityConsumer connects to the broker at url, declares the
// activity queue and appends every delivered event to dir/activity.log.  It
// reconnects with exponential backoff and never returns under normal
// operation, so run it in its own goroutine.
func StartActivityConsumer(url, dir string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warnf("activity-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, dir); err != nil {
			log.Warnf("activity-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
		_ = conn.Close()
	}
}

func consumeLoop(conn *amqp.Connection, dir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warnf("activity-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(ActivityQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ActivityQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := AppendActivity(dir, d.Body); err != nil {
			log.Errorf("activity-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // do not requeue poison messages
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// AppendActivity decodes one event and appends its log line to
// dir/activity.log, creating the directory if needed.
func AppendActivity(dir string, body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, ActivityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatActivity(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatActivity renders ev as a single newline-terminated log line.
func FormatActivity(ev ActivityEvent) string {
	parts := []string{fmt.Sprintf("[%s] %s", ev.OccurredAt, ev.Type), "user=" + ev.Username}
	if ev.IdeaID != 0 {
		parts = append(parts, fmt.Sprintf("idea_id=%d", ev.IdeaID))
	}
	if ev.IdeaTitle != "" {
		parts = append(parts, fmt.Sprintf("title=%q", ev.IdeaTitle))
	}
	if ev.Status != "" {
		parts = append(parts, fmt.Sprintf("status=%q", ev.Status))
	}
	if ev.Points != 0 {
		parts = append(parts, fmt.Sprintf("points=+%d total=%d level=%d", ev.Points, ev.Total, ev.Level))
	}
	if ev.Reason != "" {
		parts = append(parts, fmt.Sprintf("reason=%q", ev.Reason))
	}
	return strings.Join(parts, " | ") + "\n"
}
