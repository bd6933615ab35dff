package raster

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// InvalidIndexError is returned for a tube index outside [0, NumPMTs).
type InvalidIndexError struct {
	TubeIndex int
	NumPMTs   int
}

func (e *InvalidIndexError) Error() string {
	if e.NumPMTs > 0 {
		return fmt.Sprintf("invalid tube index %d: expected [0, %d)", e.TubeIndex, e.NumPMTs)
	}
	return fmt.Sprintf("invalid tube index %d", e.TubeIndex)
}

// UnknownModuleError means a module index is outside every configured zone.
// It points at a layout that does not match the data.
type UnknownModuleError struct {
	Module int
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("module %d does not belong to any configured zone", e.Module)
}

// NotBarrelModuleError is returned by RowCol for cap modules.
type NotBarrelModuleError struct {
	Module int
	Zone   Zone
}

func (e *NotBarrelModuleError) Error() string {
	return fmt.Sprintf("module %d is in zone %s, not in the barrel", e.Module, e.Zone)
}

// HitError tags a resolution failure with the position of the record in its
// input sequence.
type HitError struct {
	Position  int
	TubeIndex int
	Err       error
}

func (e *HitError) Error() string {
	return fmt.Sprintf("hit %d (tube %d): %v", e.Position, e.TubeIndex, e.Err)
}

func (e *HitError) Unwrap() error {
	return e.Err
}

// ModuleError tags a lookup failure with the position of the module in its
// input slice.
type ModuleError struct {
	Position int
	Module   int
	Err      error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %d at position %d: %v", e.Module, e.Position, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// LayoutError reports an inconsistent detector layout.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid detector layout: %s", e.Reason)
}

func layoutErrorf(format string, args ...any) error {
	return &LayoutError{Reason: fmt.Sprintf(format, args...)}
}
