// Package common defines shared utilities and sentinel errors used across
// instaexplore client components. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

// ErrorValidation marks requests refused before any network call because
// their input cannot be valid.
var ErrorValidation = errors.New("validation error")
