package pipeline

import "fmt"

// Pipeline stages reported by StageError.
const (
	StageValidate = "validate"
	StageFetch    = "fetch"
	StageClassify = "classify"
)

// StageError tells which stage of a run failed.
type StageError struct {
	RunID string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("run %s: %s failed: %v", e.RunID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
