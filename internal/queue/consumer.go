package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const bookingLogFile = "booking.log"

// StartConsumer connects to RabbitMQ, declares both booking queues and
// appends each message to logs/booking.log in a single-line format. It
// runs a reconnect loop with capped exponential backoff and never
// returns under normal operation; processing errors are logged and the
// offending message rejected without requeueing so the loop keeps
// moving.
func StartConsumer(url string, logger *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("booking consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after a successful connect

		if err := consumeLoop(conn, logger); err != nil {
			logger.Warn("booking consumer loop ended", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("booking consumer set QoS failed", zap.Error(err))
	}

	for _, name := range []string{BookingCreatedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	created, err := ch.Consume(BookingCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingCreatedQueue, err)
	}
	cancelled, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingCancelledQueue, err)
	}

	for {
		select {
		case d, ok := <-created:
			if !ok {
				return errors.New("created deliveries channel closed")
			}
			ackOrReject(d, handleCreated(d.Body), logger)
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("cancelled deliveries channel closed")
			}
			ackOrReject(d, handleCancelled(d.Body), logger)
		}
	}
}

func ackOrReject(d amqp.Delivery, err error, logger *zap.Logger) {
	if err != nil {
		logger.Warn("booking consumer handle message failed", zap.Error(err))
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func handleCreated(body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Booking created | booking_id=%d | ref=%s | student=%s | room=%q | %s %s-%s\n",
		ev.CreatedAt, ev.BookingID, ev.Reference, ev.StudentExternalID, ev.RoomName, ev.Date, ev.Start, ev.End)
	return appendLogLine(line)
}

func handleCancelled(body []byte) error {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | ref=%s | room_id=%d | %s %s-%s | by=%s\n",
		ev.CancelledAt, ev.BookingID, ev.Reference, ev.RoomID, ev.Date, ev.Start, ev.End, ev.CancelledBy)
	return appendLogLine(line)
}

func appendLogLine(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", bookingLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
