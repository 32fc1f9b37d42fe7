package nhle

import "time"

const (
	providerName       = "nhle"
	defaultBaseURL     = "https://api-web.nhle.com/v1"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
