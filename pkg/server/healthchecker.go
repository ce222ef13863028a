package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) bool

func (f HealthCheckFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// Composite is healthy when every checker is. Nil checkers are skipped.
type Composite []HealthChecker

func (c Composite) Healthy(ctx context.Context) bool {
	for _, hc := range c {
		if hc != nil && !hc.Healthy(ctx) {
			return false
		}
	}
	return true
}
