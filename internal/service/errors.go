package service

import (
	"errors"
	"fmt"
)

// Service errors. Typed errors below match these with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrStorageIO    = errors.New("storage I/O failure")
)

// NotFoundError reports a lookup that matched nothing.
type NotFoundError struct {
	Entity string
	Field  string
	Value  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: '%v'", e.Entity, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateKeyError reports a write that would break a unique key.
// Err holds the store rejection when the conflict was detected on save.
type DuplicateKeyError struct {
	Entity string
	Key    string
	Value  string
	Err    error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %s already exists: '%s'", e.Entity, e.Key, e.Value)
}

// Is makes errors.Is(err, ErrDuplicateKey) succeed.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

func notFoundByID(entity string, id int64) error {
	return &NotFoundError{Entity: entity, Field: "id", Value: id}
}
