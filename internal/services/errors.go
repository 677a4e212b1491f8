package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/ai-interviewer/internal/repositories"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// notFound translates a repository miss into the service taxonomy and keeps
// every other error as is.
func notFound(err error, entity string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s not found: %w", entity, ErrNotFound)
	}
	return err
}

func precondition(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrPreconditionFailed)
}

func unavailable(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrUpstreamUnavailable)
}
