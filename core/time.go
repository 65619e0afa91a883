package core

import (
	"time"
)

const defaultEventPollDelay = 16

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) Time {
	delay := cfg.EventPollDelay
	if delay == 0 {
		delay = defaultEventPollDelay
	}

	return Time{
		eventPollDelay: delay,
		eventTicker:    time.NewTicker(time.Duration(delay) * time.Millisecond),
	}
}

// Time contains all the time services and tickers
type Time struct {
	eventPollDelay int
	eventTicker    *time.Ticker
}

// EventPollDelay gets the configured event poll delay in milliseconds
func (t *Time) EventPollDelay() int {
	return t.eventPollDelay
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Time) EventTicker() *time.Ticker {
	return t.eventTicker
}
