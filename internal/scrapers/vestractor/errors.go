package vestractor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetch is matched by every network or HTTP status failure.
	ErrFetch = errors.New("vestractor: fetch failed")
	// ErrParse is matched when a fetched page could not be turned into a document.
	ErrParse = errors.New("vestractor: parse failed")
	// ErrNotFound is matched when a keyed lookup had no match, and also by EmptyResultError.
	ErrNotFound = errors.New("vestractor: not found")
	// ErrEmptyResult is matched when a page loaded fine but nothing could be extracted from it.
	ErrEmptyResult = errors.New("vestractor: empty result")
)

type FetchError struct {
	Url string
	// StatusCode is 0 when the request never got a response.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Url, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Url, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

type ParseError struct {
	Url string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Url, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Level names the depth of the catalog a lookup failed at.
type Level string

const (
	LevelExam       Level = "exam"
	LevelResolution Level = "resolution"
	LevelQuestion   Level = "question"
)

type NotFoundError struct {
	Level Level
	Key   string
	// Suggestions are existing keys that look like Key, most similar first.
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Level, e.Key)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type EmptyResultError struct {
	Level Level
	// Url is the page that was loaded without yielding anything.
	Url string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no %s could be extracted from %s", e.Level, e.Url)
}

func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult || target == ErrNotFound
}
