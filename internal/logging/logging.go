package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sst/multipick/internal/pubsub"
)

type Log struct {
	ID         string
	Timestamp  time.Time
	Level      string
	Message    string
	Attributes map[string]string
	CreatedAt  time.Time
}

const (
	EventLogCreated pubsub.EventType = "log_created"

	// DefaultCapacity is how many records the service keeps.
	DefaultCapacity = 1000
)

type Service interface {
	pubsub.Subscriber[Log]

	Create(ctx context.Context, log Log) error
	List(ctx context.Context, limit int) ([]Log, error)
}

type service struct {
	mu       sync.RWMutex
	logs     []Log
	capacity int
	broker   *pubsub.Broker[Log]
}

var (
	globalMu             sync.RWMutex
	globalLoggingService *service
)

// NewService keeps the most recent capacity records in memory.
func NewService(capacity int) Service {
	return newService(capacity)
}

func newService(capacity int) *service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &service{
		capacity: capacity,
		broker:   pubsub.NewBroker[Log](),
	}
}

func InitService(capacity int) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLoggingService != nil {
		return fmt.Errorf("logging service already initialized")
	}
	globalLoggingService = newService(capacity)
	return nil
}

func GetService() Service {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLoggingService == nil {
		panic("logging service not initialized. Call logging.InitService() first.")
	}
	return globalLoggingService
}

func (s *service) Create(ctx context.Context, log Log) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Level == "" {
		log.Level = "info"
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	log.CreatedAt = time.Now()
	if log.Attributes == nil {
		log.Attributes = make(map[string]string)
	}

	s.mu.Lock()
	s.logs = append(s.logs, log)
	if over := len(s.logs) - s.capacity; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
	s.mu.Unlock()

	s.broker.Publish(EventLogCreated, log)
	return nil
}

// List returns up to limit of the most recent records, oldest first. A
// limit <= 0 returns everything kept.
func (s *service) List(ctx context.Context, limit int) ([]Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := s.logs
	if limit > 0 && len(logs) > limit {
		logs = logs[len(logs)-limit:]
	}
	out := make([]Log, len(logs))
	copy(out, logs)
	return out, nil
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[Log] {
	return s.broker.Subscribe(ctx)
}

func (s *service) Shutdown() {
	s.broker.Shutdown()
}

// RecoverPanic is a common function to handle panics gracefully.
// It logs the error, creates a panic log file with stack trace,
// and executes an optional cleanup function.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		slog.Error(fmt.Sprintf("Panic in %s: %v", name, r))

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("multipick-panic-%s-%s.log", name, timestamp)

		file, err := os.Create(filename)
		if err != nil {
			slog.Error(fmt.Sprintf("Failed to create panic log file '%s': %v", filename, err))
		} else {
			defer file.Close()
			fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
			fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprintf(file, "Stack Trace:\n%s\n", string(debug.Stack()))
			slog.Info(fmt.Sprintf("Panic details written to %s", filename))
		}

		if cleanup != nil {
			cleanup()
		}
	}
}
