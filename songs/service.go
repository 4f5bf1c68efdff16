package songs

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"songbot/links"
	"songbot/odesli"
)

// Outcome labels what happened to a single resolution.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeUpstreamError  Outcome = "upstream_error"
	OutcomeNoPlatforms    Outcome = "no_platforms"
	OutcomeTransportError Outcome = "transport_error"
)

// LinkResolver fetches the cross-platform links for one URL.
type LinkResolver interface {
	Links(ctx context.Context, target string) (*odesli.Response, error)
}

// Recorder observes resolutions. metrics.Metrics implements it.
type Recorder interface {
	ObserveResolution(outcome Outcome, elapsed time.Duration)
}

// Result holds either a Summary or the error that prevented one. Exactly one
// of the two is set.
type Result struct {
	URL     string
	Summary *Summary
	Err     error
}

// StatusError returns the upstream failure carried by the result, if any.
func (r Result) StatusError() (*odesli.StatusError, bool) {
	var statusErr *odesli.StatusError
	if errors.As(r.Err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// Outcome classifies the result for metrics and logs.
func (r Result) Outcome() Outcome {
	switch {
	case r.Err == nil:
		return OutcomeSuccess
	case errors.Is(r.Err, ErrNoSupportedPlatforms):
		return OutcomeNoPlatforms
	}
	if _, ok := r.StatusError(); ok {
		return OutcomeUpstreamError
	}
	return OutcomeTransportError
}

type Service struct {
	resolver LinkResolver
	recorder Recorder
}

// NewService builds a Service. recorder may be nil.
func NewService(resolver LinkResolver, recorder Recorder) *Service {
	return &Service{
		resolver: resolver,
		recorder: recorder,
	}
}

// Resolve looks up one URL and summarizes it.
func (s *Service) Resolve(ctx context.Context, url string) Result {
	start := time.Now()
	result := s.resolve(ctx, url)

	outcome := result.Outcome()
	if s.recorder != nil {
		s.recorder.ObserveResolution(outcome, time.Since(start))
	}

	logger := log.WithFields(log.Fields{
		"module":  "songs",
		"method":  "Resolve",
		"url":     url,
		"outcome": outcome,
	})
	if result.Err != nil {
		logger.Debugf("resolution failed: %v", result.Err)
	} else {
		logger.Debugf("resolved '%s' by %s", result.Summary.Title, result.Summary.Artist)
	}

	return result
}

func (s *Service) resolve(ctx context.Context, url string) Result {
	resp, err := s.resolver.Links(ctx, url)
	if err != nil {
		return Result{URL: url, Err: err}
	}
	summary, err := Summarize(resp)
	if err != nil {
		return Result{URL: url, Err: err}
	}
	return Result{URL: url, Summary: summary}
}

// ResolveText resolves every URL found in text, one after another, in the
// order they appear. It stops early if ctx is cancelled.
func (s *Service) ResolveText(ctx context.Context, text string) []Result {
	var results []Result
	for url := range links.Extract(text) {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.Resolve(ctx, url))
	}
	return results
}
