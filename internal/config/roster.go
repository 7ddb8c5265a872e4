package config

import "time"

// RosterConfig controls how we talk to the upstream roster API.
// Empty values fall back to the client's built-in public endpoint and cohort.
type RosterConfig struct {
	BaseURL string        `env:"ROSTER_API_BASE_URL" env-description:"roster API base URL"`
	Cohort  string        `env:"ROSTER_COHORT" env-description:"cohort path segment"`
	Timeout time.Duration `env:"ROSTER_API_TIMEOUT" env-default:"0s" env-description:"per-request timeout, 0 disables"`
}
