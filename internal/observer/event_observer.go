package observer

import (
	"context"
	"sync"
	"time"

	"go-teeth-classifier/pkg/models"

	"github.com/sirupsen/logrus"
)

// PredictionEvent represents a classification lifecycle event
type PredictionEvent struct {
	EventType         EventType              `json:"event_type"`
	Timestamp         time.Time              `json:"timestamp"`
	RequestID         string                 `json:"request_id,omitempty"`
	Filename          string                 `json:"filename,omitempty"`
	Label             models.ClassLabel      `json:"label,omitempty"`
	ConfidencePercent float64                `json:"confidence_percent,omitempty"`
	ProcessingTime    time.Duration          `json:"processing_time"`
	Success           bool                   `json:"success"`
	ErrorType         string                 `json:"error_type,omitempty"`
	ErrorMessage      string                 `json:"error_message,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of prediction event
type EventType string

const (
	// PredictionStarted when an upload enters the pipeline
	PredictionStarted EventType = "prediction_started"
	// PredictionCompleted when a label has been assigned
	PredictionCompleted EventType = "prediction_completed"
	// PredictionFailed when decode, inference or result decoding fails
	PredictionFailed EventType = "prediction_failed"
	// ModelLoaded when the classifier artifact is ready
	ModelLoaded EventType = "model_loaded"
	// ModelLoadFailed when the classifier artifact cannot be loaded
	ModelLoadFailed EventType = "model_load_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PredictionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PredictionEvent)
}

// LoggingObserver logs prediction events
type LoggingObserver struct {
	logger *logrus.Entry
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Entry) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles prediction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}
	if event.Filename != "" {
		fields["filename"] = event.Filename
	}
	if event.Label != "" {
		fields["label"] = event.Label
		fields["confidence_percent"] = event.ConfidencePercent
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
		fields["error_type"] = event.ErrorType
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case PredictionStarted:
		entry.Debug("Prediction started")
	case PredictionCompleted:
		entry.Info("Prediction completed")
	case PredictionFailed:
		entry.Warn("Prediction failed")
	case ModelLoaded:
		entry.Info("Classifier model loaded")
	case ModelLoadFailed:
		entry.Error("Classifier model load failed")
	default:
		entry.Info("Prediction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	wg        sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event without blocking the caller.
// Observers receive a context that is not canceled with the request.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PredictionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	ctx = context.WithoutCancel(ctx)

	for _, observer := range observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every in-flight notification has been delivered.
func (p *EventPublisher) Wait() {
	p.wg.Wait()
}
