package httpx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned while the breaker rejects calls.
var ErrBreakerOpen = errors.New("upstream circuit open")

// ignoredError carries a failure caused by the request itself. The breaker
// passes it back to the caller without counting it.
type ignoredError struct {
	err error
}

func (e *ignoredError) Error() string {
	return e.err.Error()
}

func (e *ignoredError) Unwrap() error {
	return e.err
}

// Ignore marks err as not an upstream health failure, e.g. a 4xx rejection
// of one oversized input.
func Ignore(err error) error {
	if err == nil {
		return nil
	}
	return &ignoredError{err: err}
}

func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var ignored *ignoredError
	return errors.As(err, &ignored) || errors.Is(err, context.Canceled)
}

type CircuitBreaker interface {
	Execute(fn func() error) error
}

type circuitBreakerWrapper struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker opens after maxFailures consecutive failures and probes
// the upstream again once timeout has elapsed. Calls are never retried.
func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32, logger *logrus.Logger) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Timeout:      timeout,
		IsSuccessful: countsAsSuccess,
		ReadyToTrip:  func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}
	return &circuitBreakerWrapper{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *circuitBreakerWrapper) Execute(fn func() error) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("breaker (%s): %w", g.breaker.Name(), ErrBreakerOpen)
	}
	return err
}
