package hclust

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; functions may wrap them
// with fmt.Errorf("...: %w", err) to add context.
var (
	ErrNoVariables         = errors.New("hclust: no variables specified")
	ErrEmptyDataset        = errors.New("hclust: empty dataset")
	ErrTooFewCases         = errors.New("hclust: at least two cases are required")
	ErrDimensionMismatch   = errors.New("hclust: dimension mismatch")
	ErrUnknownMeasure      = errors.New("hclust: unknown distance measure")
	ErrUnknownLinkage      = errors.New("hclust: unknown linkage method")
	ErrInvalidSchedule     = errors.New("hclust: invalid agglomeration schedule")
	ErrInvalidWindow       = errors.New("hclust: invalid display window")
	ErrInvalidClusterCount = errors.New("hclust: invalid cluster count")
	ErrClosestClusters     = errors.New("hclust: failed to find closest clusters")
	ErrMissingValues       = errors.New("hclust: two-step clustering requires complete cases")
	ErrLinkageMeasure      = errors.New("hclust: linkage cannot be used with this measure")
)

// StageError reports that the agglomeration engine could not pick a pair of
// clusters to merge. The whole run is aborted; no partial schedule exists.
type StageError struct {
	Stage     int // 1-based stage that failed
	Remaining int // clusters left when the failure occurred
}

func (e *StageError) Error() string {
	return fmt.Sprintf("hclust: failed to find closest clusters at stage %d (%d clusters remaining)", e.Stage, e.Remaining)
}

func (e *StageError) Unwrap() error { return ErrClosestClusters }
