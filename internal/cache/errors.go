package cache

import (
	"errors"
	"fmt"
	"time"
)

// ErrNetworkUnavailable is returned when the network is down and no cached
// entry can stand in for the requested data.
var ErrNetworkUnavailable = errors.New("cache: network unavailable and no cached data")

// ErrStaleData marks a result served from an expired entry while offline.
// It is advisory: the Result still carries a usable value.
var ErrStaleData = errors.New("cache: serving stale data")

// StaleError reports how old a stale entry was when it was served.
type StaleError struct {
	Age time.Duration
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("cache: serving stale data (age %s)", e.Age.Round(time.Second))
}

// Is lets errors.Is(err, ErrStaleData) match.
func (e *StaleError) Is(target error) bool {
	return target == ErrStaleData
}

// FetchError is the terminal error after every fetch attempt failed.
type FetchError struct {
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cache: fetch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StoreError wraps a backing store failure, tagged with the operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
