// Package resilience provides reliability and fault tolerance patterns for the application.
//
// The package supports:
//   - Circuit breakers for the upstream news API and the worker's refresh trigger
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.NewsAPIConfig())
//	articles, err := circuitbreaker.Do(cb, func() ([]entity.Article, error) {
//	    return search(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.RefreshTriggerConfig(), func() error {
//	    return trigger(ctx)
//	})
package resilience
