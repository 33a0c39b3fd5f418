package workflow

import (
	"fmt"
	"strings"
)

// Subject は遷移対象レコードのスナップショットです。
type Subject struct {
	Name  string
	Flags Flags
}

// Transition は Advance が成功した結果です。
type Transition struct {
	Step          Step
	Previous      Flags
	Flags         Flags
	PreviousStage Stage
	Stage         Stage
	Notifications []NotificationIntent
}

// StageChanged は遷移で段階が変わったかを返します。
func (t *Transition) StageChanged() bool {
	return t.PreviousStage != t.Stage
}

// Advance は flag の完了要求を検証し、成功すれば更新後の集合と通知意図を返します。
// 副作用はありません。永続化と通知配信は呼び出し側の責務です。
func Advance(subject Subject, flag Flag, role Role) (*Transition, error) {
	step, ok := StepFor(flag)
	if !ok {
		return nil, fmt.Errorf("flag %d: %w", uint8(flag), ErrUnknownFlag)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", string(role), ErrUnknownRole)
	}

	if subject.Flags.Has(flag) {
		return nil, &AlreadyCompletedError{Flag: flag}
	}

	if role != step.Actor {
		return nil, &WrongActorError{Flag: flag, Expected: step.Actor, Actual: role}
	}

	for _, pre := range step.Prerequisites {
		if !subject.Flags.Has(pre) {
			return nil, &PrerequisiteError{Flag: flag, Missing: pre}
		}
	}

	next := subject.Flags.With(flag)
	return &Transition{
		Step:          step,
		Previous:      subject.Flags,
		Flags:         next,
		PreviousStage: DeriveStage(subject.Flags),
		Stage:         DeriveStage(next),
		Notifications: intentsFor(flag, displayName(subject.Name)),
	}, nil
}

// NextAction は次に必要な操作の案内です。
type NextAction struct {
	Step       *Step
	Actionable bool
	WaitingOn  Role
	Completed  bool
}

// NextStep は表の順序で最初の未完了ステップを返します。先のステップへ飛ばすことはありません。
func NextStep(flags Flags, role Role) NextAction {
	for _, s := range steps {
		if flags.Has(s.Flag) {
			continue
		}
		step := s.clone()
		if step.Actor == role {
			return NextAction{Step: &step, Actionable: true}
		}
		return NextAction{Step: &step, WaitingOn: step.Actor}
	}
	return NextAction{Completed: true}
}

func displayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "The employee"
	}
	return trimmed
}
