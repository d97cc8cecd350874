// Package status carries short-lived messages shown in the status bar.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sst/multipick/internal/pubsub"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelDebug Level = "debug"
)

// DefaultTTL is how long a message stays visible unless it says otherwise.
const DefaultTTL = 4 * time.Second

type StatusMessage struct {
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the message should no longer be shown at now.
func (m StatusMessage) Expired(now time.Time) bool {
	ttl := m.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Sub(m.Timestamp) > ttl
}

type Option func(*StatusMessage)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *StatusMessage) {
		m.TTL = ttl
	}
}

type Service interface {
	pubsub.Subscriber[StatusMessage]
	Info(message string, opts ...Option)
	Warn(message string, opts ...Option)
	Error(message string, opts ...Option)
	Debug(message string, opts ...Option)
}

type service struct {
	broker *pubsub.Broker[StatusMessage]
	now    func() time.Time
}

func NewService() Service {
	return &service{
		broker: pubsub.NewBroker[StatusMessage](),
		now:    time.Now,
	}
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[StatusMessage] {
	return s.broker.Subscribe(ctx)
}

func (s *service) Info(message string, opts ...Option) {
	s.publish(LevelInfo, message, opts)
}

func (s *service) Warn(message string, opts ...Option) {
	s.publish(LevelWarn, message, opts)
}

func (s *service) Error(message string, opts ...Option) {
	s.publish(LevelError, message, opts)
}

func (s *service) Debug(message string, opts ...Option) {
	s.publish(LevelDebug, message, opts)
}

func (s *service) publish(level Level, message string, opts []Option) {
	msg := StatusMessage{
		Level:     level,
		Message:   message,
		Timestamp: s.now(),
		TTL:       DefaultTTL,
	}
	for _, opt := range opts {
		opt(&msg)
	}
	s.broker.Publish(pubsub.EventCreated, msg)
}

var (
	globalMu      sync.RWMutex
	globalService Service
)

// InitManager installs the service used by the package level helpers.
func InitManager(service Service) {
	globalMu.Lock()
	globalService = service
	globalMu.Unlock()
	slog.Debug("Status manager initialized")
}

// GetService returns the global service, creating one on first use.
func GetService() Service {
	globalMu.RLock()
	svc := globalService
	globalMu.RUnlock()
	if svc != nil {
		return svc
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalService == nil {
		slog.Warn("Status manager not initialized, initializing with default service")
		globalService = NewService()
	}
	return globalService
}

func Info(message string, opts ...Option)  { GetService().Info(message, opts...) }
func Warn(message string, opts ...Option)  { GetService().Warn(message, opts...) }
func Error(message string, opts ...Option) { GetService().Error(message, opts...) }
func Debug(message string, opts ...Option) { GetService().Debug(message, opts...) }
