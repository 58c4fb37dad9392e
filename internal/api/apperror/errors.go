// Package apperror holds the error taxonomy shared by the mapping,
// persistence and HTTP layers.
package apperror

import (
	"errors"
	"fmt"
)

type ItemType string

const (
	TypeInvalid       ItemType = "invalid"
	TypeRequired      ItemType = "required"
	TypeNotFound      ItemType = "not_found"
	TypeInternalError ItemType = "internal_error"
)

// ErrorItem is one entry of the envelope's errors array.
type ErrorItem struct {
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Type    ItemType `json:"type"`
}

// ConfigurationError means no mapping config is registered for a resource.
// It is a deployment defect and is never retried.
type ConfigurationError struct {
	Resource string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no mapping configuration registered for resource %q", e.Resource)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Items []ErrorItem
}

func (e *ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s %s", e.Items[0].Field, e.Items[0].Message)
}

// ParseError reports a value that could not be coerced, typically a non
// numeric id.
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s value %v as an integer id", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type PersistenceKind int

const (
	PersistenceFailure PersistenceKind = iota
	PersistenceConflict
	PersistenceReference
)

type PersistenceError struct {
	Resource string
	Op       string
	Kind     PersistenceKind
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(items ...ErrorItem) error {
	return &ValidationError{Items: items}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
