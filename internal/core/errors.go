package core

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when there is nothing to analyze
var ErrEmptyInput = errors.New("email input is empty")

// ParseError reports a failure of the structured parsing path
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse email (%s): %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SignalExtractionError reports a detector that faulted
type SignalExtractionError struct {
	Detector string
	Cause    any
}

func (e *SignalExtractionError) Error() string {
	return fmt.Sprintf("signal extraction failed in %s: %v", e.Detector, e.Cause)
}

func (e *SignalExtractionError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// ClassifierError reports a model that could not produce a probability
type ClassifierError struct {
	Model string
	Err   error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier %q failed: %v", e.Model, e.Err)
}

func (e *ClassifierError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed store or publish operation
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
