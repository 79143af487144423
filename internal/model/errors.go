package model

import "errors"

var (
	// ErrDataUnavailable means the price source returned no usable rows.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrInvalidConfiguration covers bad window sizes and mismatched inputs.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidPriceData means a return would divide by a non-positive close.
	ErrInvalidPriceData = errors.New("invalid price data")
	// ErrInsufficientHistory means the series is shorter than the slow window.
	// It is reported, never returned as a failure.
	ErrInsufficientHistory = errors.New("insufficient history")
)
