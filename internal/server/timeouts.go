package server

import "time"

// No write timeout: a page waits on its upstream roster call for as long as that call takes.
const (
	readTimeout = 10 * time.Second
	idleTimeout = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
