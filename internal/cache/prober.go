package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Connectivity is a single reading from a connectivity checker.
type Connectivity struct {
	// Connected reports whether a network interface is up.
	Connected bool

	// InternetReachable reports whether the wider internet answered.
	InternetReachable bool
}

// Offline is true only for an explicit double-negative reading. Unknown
// states lean online.
func (c Connectivity) Offline() bool {
	return !c.Connected && !c.InternetReachable
}

// ConnectivityChecker performs one connectivity check.
type ConnectivityChecker interface {
	Check(ctx context.Context) (Connectivity, error)
}

// Prober answers whether the network is usable right now.
type Prober interface {
	IsAvailable(ctx context.Context) bool
}

// StaticProber always reports the same availability. It is the default when
// no checker is wired, and the workhorse for tests.
type StaticProber bool

// IsAvailable returns the fixed answer.
func (p StaticProber) IsAvailable(context.Context) bool {
	return bool(p)
}

// NetworkProber consults a ConnectivityChecker under a hard time bound.
// It is optimistic: checker errors, timeouts and ambiguous readings all
// count as online, so a flaky probe can never block reads that would have
// succeeded. The fetch path discovers real outages soon enough.
type NetworkProber struct {
	checker ConnectivityChecker
	timeout time.Duration
	logger  *zap.Logger
}

// NewNetworkProber wraps checker with a timeout (DefaultProbeTimeout if
// non-positive).
func NewNetworkProber(checker ConnectivityChecker, timeout time.Duration, logger *zap.Logger) *NetworkProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NetworkProber{
		checker: checker,
		timeout: timeout,
		logger:  logger,
	}
}

// IsAvailable runs one bounded connectivity check.
func (p *NetworkProber) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type reading struct {
		state Connectivity
		err   error
	}

	ch := make(chan reading, 1)
	go func() {
		state, err := p.checker.Check(ctx)
		ch <- reading{state: state, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			p.logger.Debug("Connectivity check failed, assuming online", zap.Error(r.err))
			return true
		}
		return !r.state.Offline()
	case <-ctx.Done():
		p.logger.Debug("Connectivity check timed out, assuming online",
			zap.Duration("timeout", p.timeout))
		return true
	}
}
