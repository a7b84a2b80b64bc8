package types

import (
	"errors"
	"fmt"
)

// FetchError marks a per-source transport or parse failure. It is counted
// against the source's consecutive-failure threshold and never aborts the
// sibling source.
type FetchError struct {
	Source SourceKey
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(source SourceKey, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}

// PublishError marks a per-item publish failure. It is reported but never
// counted against the failure threshold and never aborts the batch.
type PublishError struct {
	Target string
	ItemID string
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s to %s: %v", e.ItemID, e.Target, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func NewPublishError(target, itemID string, err error) *PublishError {
	return &PublishError{Target: target, ItemID: itemID, Err: err}
}

// StorageError marks the state store as unavailable. A load failure aborts
// the cycle before any side effect; a flush failure is logged and swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func IsStorageUnavailable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
