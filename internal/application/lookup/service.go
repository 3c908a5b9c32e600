package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"go.uber.org/zap"
)

// ErrLookupFailed is returned for every unsuccessful lookup
var ErrLookupFailed = errors.New("user not found or API error")

// Lookup outcomes, used as metric labels
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamStatus = "upstream_status"
	OutcomeTransport      = "transport"
	OutcomeDecode         = "decode"
)

// GistLister lists the public gists of a user
type GistLister interface {
	ListGists(ctx context.Context, username string) ([]github.Gist, error)
}

// MetricsCollector records lookup metrics
type MetricsCollector interface {
	IncLookups(outcome string)
	RecordUpstreamResponse(code int, latency time.Duration)
	ObserveUpstreamLatency(latency time.Duration)
	ObserveGistsReturned(n int)
}

// Result is a successful lookup
type Result struct {
	Username string
	URLs     []string
}

// Service resolves usernames to gist URLs
type Service struct {
	gists   GistLister
	metrics MetricsCollector
	logger  *zap.Logger
}

// NewService creates a new lookup service
func NewService(gists GistLister, metrics MetricsCollector, logger *zap.Logger) *Service {
	return &Service{
		gists:   gists,
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup fetches the gists of username and returns their html URLs in
// upstream order. URLs is never nil on success.
func (s *Service) Lookup(ctx context.Context, username string) (*Result, error) {
	start := time.Now()
	gists, err := s.gists.ListGists(ctx, username)
	latency := time.Since(start)

	if err != nil {
		outcome := s.classify(err, latency)
		s.metrics.IncLookups(outcome)
		s.logger.Warn("gist lookup failed",
			zap.String("username", username),
			zap.String("outcome", outcome),
			zap.Duration("latency", latency),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	s.metrics.RecordUpstreamResponse(http.StatusOK, latency)

	urls := make([]string, 0, len(gists))
	for _, g := range gists {
		urls = append(urls, g.HTMLURL)
	}

	s.metrics.IncLookups(OutcomeSuccess)
	s.metrics.ObserveGistsReturned(len(urls))
	s.logger.Debug("gist lookup succeeded",
		zap.String("username", username),
		zap.Int("count", len(urls)),
		zap.Duration("latency", latency))

	return &Result{Username: username, URLs: urls}, nil
}

// classify maps an adapter error to an outcome label and records upstream metrics
func (s *Service) classify(err error, latency time.Duration) string {
	var statusErr *github.StatusError
	if errors.As(err, &statusErr) {
		s.metrics.RecordUpstreamResponse(statusErr.StatusCode, latency)
		return OutcomeUpstreamStatus
	}

	if errors.Is(err, github.ErrDecode) {
		s.metrics.RecordUpstreamResponse(http.StatusOK, latency)
		return OutcomeDecode
	}

	s.metrics.ObserveUpstreamLatency(latency)
	return OutcomeTransport
}
