// Package httputil provides the retry policy of the REST data source.
//
// [Backoff.Do] re-runs an operation with exponential backoff, but only for
// errors wrapped in [RetryableError]. Wrap network failures, 429 and 5xx
// responses; leave other 4xx responses unwrapped so they fail immediately:
//
//	err := httputil.DefaultBackoff.Do(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    if resp.StatusCode == http.StatusTooManyRequests {
//	        return &httputil.RetryableError{Err: errStatus, After: httputil.RetryAfter(resp.Header)}
//	    }
//	    ...
//	})
package httputil
