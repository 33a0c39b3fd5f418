package workflow

import "fmt"

// Stage はフラグから導出される大まかな進捗段階です。保存はしません。
type Stage string

const (
	StagePreArrival   Stage = "pre-arrival"
	StageInCountry    Stage = "in-country"
	StageFinalization Stage = "finalization"
	StageCompleted    Stage = "completed"
)

// Stages は段階を進行順で返します。
func Stages() []Stage {
	return []Stage{StagePreArrival, StageInCountry, StageFinalization, StageCompleted}
}

// ParseStage は段階名を Stage に変換します。
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownStage)
}

// DeriveStage はフラグ集合から段階を算出します。
func DeriveStage(flags Flags) Stage {
	switch {
	case flags.Has(FlagStampedVisaUploaded):
		return StageCompleted
	case flags.Has(FlagContractSigned):
		return StageFinalization
	case flags.Has(FlagArrivalUpdated):
		return StageInCountry
	default:
		return StagePreArrival
	}
}

// StageBoundary は段階に属するレコードの条件です。
// Entry が完了済みかつ Exit が未完了のレコードがその段階に属します。
type StageBoundary struct {
	Entry    Flag
	HasEntry bool
	Exit     Flag
	HasExit  bool
}

// BoundaryOf は段階の境界フラグを返します。
func BoundaryOf(stage Stage) (StageBoundary, error) {
	switch stage {
	case StagePreArrival:
		return StageBoundary{Exit: FlagArrivalUpdated, HasExit: true}, nil
	case StageInCountry:
		return StageBoundary{Entry: FlagArrivalUpdated, HasEntry: true, Exit: FlagContractSigned, HasExit: true}, nil
	case StageFinalization:
		return StageBoundary{Entry: FlagContractSigned, HasEntry: true, Exit: FlagStampedVisaUploaded, HasExit: true}, nil
	case StageCompleted:
		return StageBoundary{Entry: FlagStampedVisaUploaded, HasEntry: true}, nil
	default:
		return StageBoundary{}, fmt.Errorf("%q: %w", string(stage), ErrUnknownStage)
	}
}

// Contains は集合が境界条件を満たすかを返します。
func (b StageBoundary) Contains(flags Flags) bool {
	if b.HasEntry && !flags.Has(b.Entry) {
		return false
	}
	if b.HasExit && flags.Has(b.Exit) {
		return false
	}
	return true
}
