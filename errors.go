package main

import "errors"

// Failure classes reported during startup and rendering. Callers wrap these
// with context and test for them with errors.Is.
var (
	// ErrDisplayInit reports that the window or graphics context could not be created.
	ErrDisplayInit = errors.New("display initialization failed")

	// ErrTextureLoad reports that a plane texture could not be read or decoded.
	ErrTextureLoad = errors.New("texture load failed")

	// ErrUnsupportedFormat reports a source pixel depth that cannot be
	// normalized to RGB without losing information.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrInvalidConfig reports a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("invalid configuration")
)
