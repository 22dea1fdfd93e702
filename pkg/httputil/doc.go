// Package httputil fetches graph payloads over HTTP.
//
// # Overview
//
// Commands accept an http or https URL wherever they accept a payload file,
// for example the graph-data route of another viewer:
//
//	actionviz inspect http://localhost:8765/snapshots/<id>/graph-data
//
// [Fetch] performs the GET with a size limit and retries transient
// failures through [Retry].
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for errors
// wrapped in [RetryableError]. Network errors and 5xx responses are
// retryable; 4xx responses are not.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
