// Package resilience retries operations against infrastructure that may
// not be reachable yet, such as a preference backend that starts after
// the application.
//
//	err := resilience.Do(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) error {
//	    return rdb.Ping(ctx).Err()
//	})
package resilience
