package domain

import (
	"errors"
	"fmt"
)

// User-facing messages.
const (
	MsgEnterCity        = "Enter a city name"
	MsgLocationFailed   = "Unable to fetch your location."
	MsgCityNotFound     = "City not found"
	MsgProviderDown     = "Unable to reach the weather service"
	MsgProviderResponse = "Unexpected response from the weather service"
)

// InputError is raised locally for bad user input; it never reaches the network.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// ProviderError is a failed forecast lookup. Reason is shown to the user;
// Err keeps the underlying cause for logs.
type ProviderError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProviderError) Unwrap() error { return e.Err }

// LocationError means device geolocation was denied or unavailable.
type LocationError struct {
	Err error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation: %v", e.Err)
	}
	return "geolocation unavailable"
}

func (e *LocationError) Unwrap() error { return e.Err }

// Reason extracts the message to display for err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Reason
	}
	var locErr *LocationError
	if errors.As(err, &locErr) {
		return MsgLocationFailed
	}
	return err.Error()
}
