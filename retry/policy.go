// This package contains the main [Policy] interface and several implementations.
package retry

import "context"

// Policy defines how many times and how often an operation is attempted.
//
// Implementations are not considered thread-safe; use [Policy.Derive] to get an instance for
// every operation.
type Policy interface {
	// Attempt checks if another attempt should be made.
	//
	// This method blocks until an attempt can be made or the context is cancelled.
	// It internally handles waiting between attempts based on the policy configuration.
	// Returns true if an attempt should be made, false if no attempts remain.
	Attempt(ctx context.Context) bool
	// Derive returns a new Policy instance for a single operation.
	//
	// The returned policy maintains its own internal state for tracking attempts.
	Derive() Policy
}

// Do calls fn until it succeeds, it returns an error that is not retryable, or the policy runs
// out of attempts. The last error of fn is returned; if no attempt was made at all, the context
// error is returned.
func Do(ctx context.Context, policy Policy, retryable func(error) bool, fn func() error) error {
	var err error
	for policy.Attempt(ctx) {
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	return err
}
