package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFlag        = errors.New("workflow: unknown flag")
	ErrUnknownRole        = errors.New("workflow: unknown role")
	ErrUnknownStage       = errors.New("workflow: unknown stage")
	ErrAlreadyCompleted   = errors.New("workflow: step already completed")
	ErrPrerequisiteNotMet = errors.New("workflow: prerequisite not met")
	ErrWrongActor         = errors.New("workflow: wrong actor")
	ErrInconsistentFlags  = errors.New("workflow: inconsistent flags")
)

// AlreadyCompletedError は完了済みフラグへの再要求を表します。
type AlreadyCompletedError struct {
	Flag Flag
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("workflow: %s already completed", e.Flag)
}

func (e *AlreadyCompletedError) Is(target error) bool {
	return target == ErrAlreadyCompleted
}

// PrerequisiteError は未完了の前提フラグを表します。
type PrerequisiteError struct {
	Flag    Flag
	Missing Flag
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("workflow: %s requires %s first", e.Flag, e.Missing)
}

func (e *PrerequisiteError) Is(target error) bool {
	return target == ErrPrerequisiteNotMet
}

// WrongActorError はステップを完了できないロールからの要求を表します。
type WrongActorError struct {
	Flag     Flag
	Expected Role
	Actual   Role
}

func (e *WrongActorError) Error() string {
	return fmt.Sprintf("workflow: %s must be completed by %s, not %s", e.Flag, e.Expected, e.Actual)
}

func (e *WrongActorError) Is(target error) bool {
	return target == ErrWrongActor
}
