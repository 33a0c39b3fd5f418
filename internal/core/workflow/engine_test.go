package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeThrough(t *testing.T, last Flag) Flags {
	t.Helper()
	var flags Flags
	for _, s := range Steps() {
		flags = flags.With(s.Flag)
		if s.Flag == last {
			return flags
		}
	}
	t.Fatalf("flag %s not in table", last)
	return 0
}

func TestAdvance_ExampleScenario(t *testing.T) {
	t.Parallel()

	subject := Subject{Name: "Aisha Khan"}

	tr, err := Advance(subject, FlagDocumentsUploaded, RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, StagePreArrival, tr.Stage)
	subject.Flags = tr.Flags

	tr, err = Advance(subject, FlagHRReviewed, RoleHR)
	require.NoError(t, err)
	subject.Flags = tr.Flags

	tr, err = Advance(subject, FlagDisoInfoCompleted, RoleHR)
	require.NoError(t, err)
	subject.Flags = tr.Flags

	tr, err = Advance(subject, FlagEntryPermitGenerated, RoleEmployee)
	require.NoError(t, err)
	subject.Flags = tr.Flags

	tr, err = Advance(subject, FlagArrivalUpdated, RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, StageInCountry, tr.Stage)
	assert.True(t, tr.StageChanged())
	subject.Flags = tr.Flags

	_, err = Advance(subject, FlagMedicalCertificateUploaded, RoleEmployee)
	require.ErrorIs(t, err, ErrPrerequisiteNotMet)

	var preErr *PrerequisiteError
	require.True(t, errors.As(err, &preErr))
	assert.Equal(t, FlagMedicalAppointmentScheduled, preErr.Missing)
	assert.Equal(t, "medical_appointment_scheduled", preErr.Missing.String())
}

func TestAdvance_FullRunDrivesStages(t *testing.T) {
	t.Parallel()

	var (
		subject Subject
		seen    []Stage
	)
	for _, s := range Steps() {
		tr, err := Advance(subject, s.Flag, s.Actor)
		require.NoError(t, err, "step %s", s.Flag)
		require.Equal(t, subject.Flags.Len()+1, tr.Flags.Len())
		subject.Flags = tr.Flags
		if len(seen) == 0 || seen[len(seen)-1] != tr.Stage {
			seen = append(seen, tr.Stage)
		}
	}

	assert.Equal(t, []Stage{StagePreArrival, StageInCountry, StageFinalization, StageCompleted}, seen)
	assert.True(t, subject.Flags.Complete())

	for _, s := range Steps() {
		_, err := Advance(subject, s.Flag, s.Actor)
		assert.ErrorIs(t, err, ErrAlreadyCompleted, "step %s", s.Flag)
	}
}

func TestAdvance_Ordering_Exhaustive(t *testing.T) {
	t.Parallel()

	table := Steps()
	for i, target := range table {
		if len(target.Prerequisites) == 0 {
			continue
		}
		// every prefix that stops before the prerequisite must be rejected
		for j := -1; j < i-1; j++ {
			var flags Flags
			if j >= 0 {
				flags = completeThrough(t, table[j].Flag)
			}
			_, err := Advance(Subject{Flags: flags}, target.Flag, target.Actor)
			require.ErrorIs(t, err, ErrPrerequisiteNotMet, "target %s with prefix %d", target.Flag, j)

			var preErr *PrerequisiteError
			require.True(t, errors.As(err, &preErr))
			assert.Equal(t, target.Prerequisites[0], preErr.Missing)
		}
	}
}

func TestAdvance_Idempotency(t *testing.T) {
	t.Parallel()

	flags := completeThrough(t, FlagHRReviewed)
	subject := Subject{Flags: flags}

	for i := 0; i < 2; i++ {
		_, err := Advance(subject, FlagHRReviewed, RoleHR)
		require.ErrorIs(t, err, ErrAlreadyCompleted)

		var done *AlreadyCompletedError
		require.True(t, errors.As(err, &done))
		assert.Equal(t, FlagHRReviewed, done.Flag)
	}
	assert.Equal(t, flags, subject.Flags)
}

func TestAdvance_RoleGating(t *testing.T) {
	t.Parallel()

	prefixes := []Flags{0, completeThrough(t, FlagDocumentsUploaded), completeThrough(t, FlagArrivalUpdated)}
	for _, flags := range prefixes {
		_, err := Advance(Subject{Flags: flags}, FlagHRReviewed, RoleEmployee)
		if flags.Has(FlagHRReviewed) {
			require.ErrorIs(t, err, ErrAlreadyCompleted)
			continue
		}
		require.ErrorIs(t, err, ErrWrongActor)

		var wrong *WrongActorError
		require.True(t, errors.As(err, &wrong))
		assert.Equal(t, RoleHR, wrong.Expected)
		assert.Equal(t, RoleEmployee, wrong.Actual)
	}
}

func TestAdvance_MohreApprovalIsExternal(t *testing.T) {
	t.Parallel()

	flags := completeThrough(t, FlagMohreSubmitted)

	_, err := Advance(Subject{Flags: flags}, FlagMohreApproved, RoleHR)
	require.ErrorIs(t, err, ErrWrongActor)

	tr, err := Advance(Subject{Name: "Omar", Flags: flags}, FlagMohreApproved, RoleExternal)
	require.NoError(t, err)
	require.Len(t, tr.Notifications, 2)
	assert.Equal(t, AudienceHR, tr.Notifications[0].Audience)
	assert.Equal(t, "MOHRE approved the contract for Omar.", tr.Notifications[0].Message)
}

func TestAdvance_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Advance(Subject{}, Flag(0), RoleEmployee)
	assert.ErrorIs(t, err, ErrUnknownFlag)

	_, err = Advance(Subject{}, FlagDocumentsUploaded, Role("admin"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestAdvance_Monotonicity(t *testing.T) {
	t.Parallel()

	var subject Subject
	attempts := []struct {
		flag Flag
		role Role
	}{
		{FlagHRReviewed, RoleHR},
		{FlagDocumentsUploaded, RoleEmployee},
		{FlagDocumentsUploaded, RoleEmployee},
		{FlagDisoInfoCompleted, RoleHR},
		{FlagHRReviewed, RoleEmployee},
		{FlagHRReviewed, RoleHR},
		{FlagDisoInfoCompleted, RoleHR},
	}

	for _, a := range attempts {
		before := subject.Flags
		tr, err := Advance(subject, a.flag, a.role)
		if err != nil {
			continue
		}
		for _, f := range before.List() {
			require.True(t, tr.Flags.Has(f), "flag %s reverted", f)
		}
		require.NoError(t, tr.Flags.Validate())
		subject.Flags = tr.Flags
	}

	assert.Equal(t, FlagsOf(FlagDocumentsUploaded, FlagHRReviewed, FlagDisoInfoCompleted), subject.Flags)
}

func TestAdvance_NotificationsNameSubject(t *testing.T) {
	t.Parallel()

	tr, err := Advance(Subject{Name: "  Priya Nair "}, FlagDocumentsUploaded, RoleEmployee)
	require.NoError(t, err)
	require.Len(t, tr.Notifications, 2)
	assert.Equal(t, "Priya Nair has uploaded onboarding documents for review.", tr.Notifications[0].Message)
	assert.Equal(t, SeverityInfo, tr.Notifications[0].Severity)
	assert.Equal(t, AudienceEmployee, tr.Notifications[1].Audience)

	tr, err = Advance(Subject{}, FlagDocumentsUploaded, RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, "The employee has uploaded onboarding documents for review.", tr.Notifications[0].Message)
}

func TestNextStep(t *testing.T) {
	t.Parallel()

	next := NextStep(0, RoleEmployee)
	require.NotNil(t, next.Step)
	assert.True(t, next.Actionable)
	assert.Equal(t, FlagDocumentsUploaded, next.Step.Flag)

	next = NextStep(0, RoleHR)
	assert.False(t, next.Actionable)
	assert.Equal(t, RoleEmployee, next.WaitingOn)

	flags := completeThrough(t, FlagMohreSubmitted)
	next = NextStep(flags, RoleHR)
	require.NotNil(t, next.Step)
	assert.Equal(t, FlagMohreApproved, next.Step.Flag)
	assert.Equal(t, RoleExternal, next.WaitingOn)

	next = NextStep(completeThrough(t, FlagStampedVisaUploaded), RoleEmployee)
	assert.True(t, next.Completed)
	assert.Nil(t, next.Step)
}

func TestNextStep_NeverSkipsAhead(t *testing.T) {
	t.Parallel()

	// hr_reviewed is missing while later data happens to be present
	flags := FlagsOf(FlagDocumentsUploaded, FlagDisoInfoCompleted, FlagEntryPermitGenerated)
	next := NextStep(flags, RoleEmployee)
	require.NotNil(t, next.Step)
	assert.Equal(t, FlagHRReviewed, next.Step.Flag)
	assert.Equal(t, RoleHR, next.WaitingOn)
}

func TestSteps_ReturnsCopy(t *testing.T) {
	t.Parallel()

	table := Steps()
	require.Len(t, table, 15)
	table[1].Prerequisites[0] = FlagStampedVisaUploaded

	step, ok := StepFor(FlagHRReviewed)
	require.True(t, ok)
	assert.Equal(t, []Flag{FlagDocumentsUploaded}, step.Prerequisites)
	assert.Equal(t, 14, Steps()[14].Number)
}
