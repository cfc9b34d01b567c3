package utils

import (
	"net/http"
	"time"
)

// HTTPClient is the shared client for outbound platform API calls. The
// timeout is the only cutoff on a slow upstream; there is no retry layer.
var HTTPClient = &http.Client{
	Timeout: 15 * time.Second,
}
