package apperr

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError reports that a page, author or source does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type UpstreamKind string

const (
	UpstreamUnavailable UpstreamKind = "unavailable"
	UpstreamMalformed   UpstreamKind = "malformed"
)

// UpstreamError is a failure talking to the wiki, the source metadata
// service or the document store. Malformed payloads are handled exactly like
// unreachable services by callers.
type UpstreamError struct {
	Kind    UpstreamKind
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s upstream %s: %v", e.Service, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s upstream %s", e.Service, e.Kind)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUnavailable(service string, err error) *UpstreamError {
	return &UpstreamError{Kind: UpstreamUnavailable, Service: service, Err: err}
}

func NewMalformed(service string, err error) *UpstreamError {
	return &UpstreamError{Kind: UpstreamMalformed, Service: service, Err: err}
}

// PolicyBlockedError reports a page that exists but may not be shown in the
// current visibility context. It is not a not-found condition.
type PolicyBlockedError struct {
	Title string
}

func (e *PolicyBlockedError) Error() string {
	return fmt.Sprintf("page %q is not published", e.Title)
}

func NewPolicyBlocked(title string) *PolicyBlockedError {
	return &PolicyBlockedError{Title: title}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

func IsPolicyBlocked(err error) bool {
	var pb *PolicyBlockedError
	return errors.As(err, &pb)
}
