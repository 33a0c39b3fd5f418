package workflow

import "fmt"

// Flags は完了済みフラグの集合です。値型であり、変更操作は新しい集合を返します。
type Flags uint32

func bit(f Flag) Flags {
	return 1 << (f - 1)
}

// FlagsOf は指定フラグからなる集合を生成します。
func FlagsOf(flags ...Flag) Flags {
	var set Flags
	for _, f := range flags {
		if f.Valid() {
			set |= bit(f)
		}
	}
	return set
}

// ParseFlags はフラグ名の一覧を集合に変換します。
func ParseFlags(names []string) (Flags, error) {
	var set Flags
	for _, name := range names {
		f, err := ParseFlag(name)
		if err != nil {
			return 0, err
		}
		set |= bit(f)
	}
	return set, nil
}

// Has は指定フラグが完了済みかを返します。
func (s Flags) Has(f Flag) bool {
	return f.Valid() && s&bit(f) != 0
}

// With は指定フラグを加えた集合を返します。
func (s Flags) With(f Flag) Flags {
	if !f.Valid() {
		return s
	}
	return s | bit(f)
}

// List は完了済みフラグを表の順序で返します。
func (s Flags) List() []Flag {
	out := make([]Flag, 0, flagCount)
	for f := FlagDocumentsUploaded; int(f) <= flagCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names は完了済みフラグ名を表の順序で返します。
func (s Flags) Names() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = f.String()
	}
	return out
}

// Len は完了済みフラグの数を返します。
func (s Flags) Len() int {
	return len(s.List())
}

// Complete は全フラグが完了しているかを返します。
func (s Flags) Complete() bool {
	return s.Len() == flagCount
}

// Validate は集合がステップ表の接頭辞になっているかを検査します。
func (s Flags) Validate() error {
	if s>>flagCount != 0 {
		return fmt.Errorf("unknown bits %#x: %w", uint32(s>>flagCount)<<flagCount, ErrInconsistentFlags)
	}
	for _, step := range steps {
		if !s.Has(step.Flag) {
			continue
		}
		for _, pre := range step.Prerequisites {
			if !s.Has(pre) {
				return fmt.Errorf("%s set without %s: %w", step.Flag, pre, ErrInconsistentFlags)
			}
		}
	}
	return nil
}
