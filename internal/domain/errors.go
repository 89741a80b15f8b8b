package domain

import (
	"fmt"
	"strings"
)

// DiscoveryError reports that the scenes directory could not be scanned.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering scenes in %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// MultipleScenesInFileError reports a violation of the one-scene-per-file
// invariant. Discovery fails rather than silently picking one class.
type MultipleScenesInFileError struct {
	File  string
	Names []string
}

func (e *MultipleScenesInFileError) Error() string {
	return fmt.Sprintf("%s declares %d scenes (%s); exactly one scene per file is required",
		e.File, len(e.Names), strings.Join(e.Names, ", "))
}

// DuplicateSceneNameError reports the same scene name declared in two files.
type DuplicateSceneNameError struct {
	Name   string
	First  string
	Second string
}

func (e *DuplicateSceneNameError) Error() string {
	return fmt.Sprintf("scene %q declared in both %s and %s; names must be unique",
		e.Name, e.First, e.Second)
}

// UnknownSceneError reports a requested scene name that is not registered.
type UnknownSceneError struct {
	Name      string
	Available []string
}

func (e *UnknownSceneError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown scene %q (no scenes discovered)", e.Name)
	}
	return fmt.Sprintf("unknown scene %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UnknownQualityError reports a quality token outside the fixed set.
type UnknownQualityError struct {
	Token string
	Valid []string
}

func (e *UnknownQualityError) Error() string {
	return fmt.Sprintf("unknown quality %q (valid: %s)", e.Token, strings.Join(e.Valid, ", "))
}
