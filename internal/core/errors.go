package core

import "errors"

var (
	// ErrNoContent is returned when neither text nor an image was submitted
	ErrNoContent = errors.New("no content to analyze")

	// ErrEmptyResponse is returned when the backend produced no text
	ErrEmptyResponse = errors.New("empty response from AI")

	// ErrMalformedReport is returned when the backend reply does not match the report schema
	ErrMalformedReport = errors.New("malformed analysis report")

	// ErrSettingNotFound is returned by settings repositories for absent keys
	ErrSettingNotFound = errors.New("setting not found")
)
