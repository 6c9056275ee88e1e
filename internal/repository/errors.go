package repository

import (
	"errors"
	"fmt"
)

const (
	notARepositoryMessageConstant           = "not a repository"
	missingConfigurationMessageConstant     = "configuration file missing"
	unsupportedFormatVersionMessageConstant = "unsupported repositoryformatversion"
	notADirectoryMessageConstant            = "not a directory"
	targetNotEmptyMessageConstant           = "target is not empty"
	repositoryNotFoundMessageConstant       = "no repository found"
	errorPathTemplateConstant               = "%s: %s"
	errorValueTemplateConstant              = "%s %q: %s"
	errorCauseTemplateConstant              = "%s: %v"
)

// ErrorKind classifies repository failures so callers can react without matching message text.
type ErrorKind string

// Supported error kinds.
const (
	ErrorKindNotARepository           ErrorKind = "not_a_repository"
	ErrorKindMissingConfiguration     ErrorKind = "missing_configuration"
	ErrorKindUnsupportedFormatVersion ErrorKind = "unsupported_format_version"
	ErrorKindNotADirectory            ErrorKind = "not_a_directory"
	ErrorKindTargetNotEmpty           ErrorKind = "target_not_empty"
	ErrorKindRepositoryNotFound       ErrorKind = "repository_not_found"
)

// Sentinels matched by errors.Is against any Error of the corresponding kind.
var (
	ErrNotARepository           = errors.New(notARepositoryMessageConstant)
	ErrMissingConfiguration     = errors.New(missingConfigurationMessageConstant)
	ErrUnsupportedFormatVersion = errors.New(unsupportedFormatVersionMessageConstant)
	ErrNotADirectory            = errors.New(notADirectoryMessageConstant)
	ErrTargetNotEmpty           = errors.New(targetNotEmptyMessageConstant)
	ErrRepositoryNotFound       = errors.New(repositoryNotFoundMessageConstant)
)

var errorKindSentinels = map[ErrorKind]error{
	ErrorKindNotARepository:           ErrNotARepository,
	ErrorKindMissingConfiguration:     ErrMissingConfiguration,
	ErrorKindUnsupportedFormatVersion: ErrUnsupportedFormatVersion,
	ErrorKindNotADirectory:            ErrNotADirectory,
	ErrorKindTargetNotEmpty:           ErrTargetNotEmpty,
	ErrorKindRepositoryNotFound:       ErrRepositoryNotFound,
}

// Error describes a repository bootstrap or validation failure.
type Error struct {
	Kind  ErrorKind
	Path  string
	Value string
	Cause error
}

// Error renders the failure with the offending path and, when present, the offending value.
func (repositoryError Error) Error() string {
	message := repositoryError.message()
	var rendered string
	if len(repositoryError.Value) > 0 {
		rendered = fmt.Sprintf(errorValueTemplateConstant, message, repositoryError.Value, repositoryError.Path)
	} else {
		rendered = fmt.Sprintf(errorPathTemplateConstant, message, repositoryError.Path)
	}
	if repositoryError.Cause != nil {
		return fmt.Sprintf(errorCauseTemplateConstant, rendered, repositoryError.Cause)
	}
	return rendered
}

// Unwrap exposes the underlying cause.
func (repositoryError Error) Unwrap() error {
	return repositoryError.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (repositoryError Error) Is(target error) bool {
	sentinel, known := errorKindSentinels[repositoryError.Kind]
	return known && target == sentinel
}

func (repositoryError Error) message() string {
	sentinel, known := errorKindSentinels[repositoryError.Kind]
	if !known {
		return string(repositoryError.Kind)
	}
	return sentinel.Error()
}

// KindOf extracts the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var repositoryError Error
	if !errors.As(err, &repositoryError) {
		return "", false
	}
	return repositoryError.Kind, true
}
