package h5

import "fmt"

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateTable represents an error when creating a table or array.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error {
	return e.Err
}

// ErrWrite represents an error when appending to a dataset.
type ErrWrite struct {
	Dataset string
	Event   int
	Err     error
}

func (e *ErrWrite) Error() string {
	return fmt.Sprintf("error writing event %d to %q: %v", e.Event, e.Dataset, e.Err)
}

func (e *ErrWrite) Unwrap() error {
	return e.Err
}
