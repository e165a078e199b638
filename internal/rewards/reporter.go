package rewards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Event is the notification sent to the reporting backend after an award.
type Event struct {
	UserID   string `json:"user_id,omitempty"`
	TermID   string `json:"term_id"`
	TermName string `json:"term_name"`
	XPEarned int    `json:"xp_earned"`
}

// ReporterConfig configures a Reporter.
type ReporterConfig struct {
	URL       string        // empty disables reporting
	Timeout   time.Duration // per request
	QueueSize int
	PerSecond float64 // 0 means unpaced
}

// Reporter forwards award events to a backend endpoint. Delivery is best
// effort: Report never blocks, and full queues or failed posts are logged
// and dropped. Local ledger state is never rolled back.
type Reporter struct {
	url     string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	queue   chan Event
}

// NewReporter creates a reporter. Events are only delivered while Run is
// active.
func NewReporter(cfg ReporterConfig, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.PerSecond > 0 {
		limit = rate.Limit(cfg.PerSecond)
	}
	return &Reporter{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("rewards.reporter"),
		queue:   make(chan Event, cfg.QueueSize),
	}
}

// Enabled reports whether a backend URL is configured.
func (r *Reporter) Enabled() bool { return r != nil && r.url != "" }

// Report enqueues ev for delivery.
func (r *Reporter) Report(ev Event) {
	if !r.Enabled() {
		return
	}
	select {
	case r.queue <- ev:
	default:
		r.logger.Warn("report queue full, dropping event",
			zap.String("term_id", ev.TermID), zap.String("user_id", ev.UserID))
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// already queued within one request timeout.
func (r *Reporter) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-r.queue:
			if ctx.Err() != nil {
				r.drain(ev)
				return nil
			}
			r.deliver(ctx, ev)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Reporter) drain(pending ...Event) {
	defer r.client.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	for _, ev := range pending {
		r.deliver(ctx, ev)
	}
	for {
		select {
		case ev := <-r.queue:
			r.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (r *Reporter) deliver(ctx context.Context, ev Event) {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("dropping event", zap.String("term_id", ev.TermID), zap.Error(err))
		return
	}
	if err := r.post(ctx, ev); err != nil {
		r.logger.Warn("xp report failed", zap.String("term_id", ev.TermID), zap.Error(err))
		return
	}
	r.logger.Debug("xp reported", zap.String("term_id", ev.TermID), zap.Int("xp_earned", ev.XPEarned))
}

func (r *Reporter) post(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %s", resp.Status)
	}
	return nil
}
