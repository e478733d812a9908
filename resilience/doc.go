// Package resilience provides the retry backoff schedule used by the HTTP
// client: exponential delays with jitter over a bounded time budget, backed
// by github.com/cenkalti/backoff.
//
//	b := resilience.NewBackoff(resilience.DefaultRetryConfig(), nil)
//	for {
//	    err := attempt()
//	    if err == nil {
//	        return nil
//	    }
//	    delay, ok := b.Next()
//	    if !ok {
//	        return err
//	    }
//	    if err := resilience.Sleep(ctx, delay); err != nil {
//	        return err
//	    }
//	}
package resilience
