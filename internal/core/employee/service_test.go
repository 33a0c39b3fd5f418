package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/workflow"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	order     []string
	saveCalls int
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	for _, existing := range r.employees {
		if existing.PassportNumber == e.PassportNumber {
			return nil, ErrPassportAlreadyExists
		}
	}
	clone := cloneEmployee(e)
	clone.ID = uuid.NewString()
	r.employees[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) UpdateProfile(_ context.Context, e *Employee, expectedVersion int64) (*Employee, error) {
	existing, ok := r.employees[e.ID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	if existing.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	clone := cloneEmployee(e)
	clone.Flags = existing.Flags
	clone.Version = existing.Version + 1
	r.employees[e.ID] = clone
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) SaveFlags(_ context.Context, id string, flags workflow.Flags, expectedVersion int64, updatedAt time.Time) (*Employee, error) {
	r.saveCalls++
	existing, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	if existing.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	clone := cloneEmployee(existing)
	clone.Flags = flags
	clone.Version++
	clone.UpdatedAt = updatedAt
	r.employees[id] = clone
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return cloneEmployee(emp), nil
}

func (r *fakeEmployeeRepo) FindByPassportNumber(_ context.Context, passport string) (*Employee, error) {
	for _, emp := range r.employees {
		if emp.PassportNumber == passport {
			return cloneEmployee(emp), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, filter ListEmployeesFilter) ([]*Employee, string, error) {
	var filtered []*Employee
	for _, id := range r.order {
		emp := r.employees[id]
		if filter.Stage != nil && emp.Stage() != *filter.Stage {
			continue
		}
		filtered = append(filtered, cloneEmployee(emp))
	}

	if filter.Offset > len(filtered) {
		return []*Employee{}, "", nil
	}
	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	nextToken := ""
	if end < len(filtered) {
		nextToken = strconv.Itoa(end)
	}
	return filtered[filter.Offset:end], nextToken, nil
}

func (r *fakeEmployeeRepo) snapshot() map[string]*Employee {
	out := make(map[string]*Employee, len(r.employees))
	for id, emp := range r.employees {
		out[id] = cloneEmployee(emp)
	}
	return out
}

func cloneEmployee(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	copy := *emp
	if emp.Email != nil {
		email := *emp.Email
		copy.Email = &email
	}
	return &copy
}

type fakeEventRepo struct {
	events []*StepEvent
}

func (r *fakeEventRepo) Append(_ context.Context, e *StepEvent) (*StepEvent, error) {
	for _, existing := range r.events {
		if existing.EmployeeID == e.EmployeeID && existing.Flag == e.Flag {
			return nil, ErrStepAlreadyRecorded
		}
	}
	clone := *e
	clone.ID = uuid.NewString()
	r.events = append(r.events, &clone)
	out := clone
	return &out, nil
}

func (r *fakeEventRepo) ListByEmployee(_ context.Context, employeeID string) ([]*StepEvent, error) {
	var out []*StepEvent
	for _, e := range r.events {
		if e.EmployeeID == employeeID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	sent []workflow.NotificationIntent
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ string, intents []workflow.NotificationIntent) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, intents...)
	return nil
}

type stubDocuments struct {
	present map[string]bool
}

func (s *stubDocuments) HasDocument(_ context.Context, employeeID, docType string) (bool, error) {
	return s.present[employeeID+"/"+docType], nil
}

// snapshotTx restores the fake repositories when the callback fails.
type snapshotTx struct {
	repo   *fakeEmployeeRepo
	events *fakeEventRepo
}

func (t *snapshotTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (t *snapshotTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	employees := t.repo.snapshot()
	events := append([]*StepEvent(nil), t.events.events...)
	if err := fn(ctx); err != nil {
		t.repo.employees = employees
		t.events.events = events
		return err
	}
	return nil
}

var (
	hrActor       = workflow.Actor{ID: "hr-1", Role: workflow.RoleHR}
	externalActor = workflow.Actor{ID: "mohre-gateway", Role: workflow.RoleExternal}
)

func employeeActor(id string) workflow.Actor {
	return workflow.Actor{ID: "user-" + id, Role: workflow.RoleEmployee, EmployeeID: id}
}

type fixture struct {
	svc        *Service
	repo       *fakeEmployeeRepo
	events     *fakeEventRepo
	dispatcher *recordingDispatcher
	docs       *stubDocuments
	clock      *stubClock
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newFakeEmployeeRepo(),
		events:     &fakeEventRepo{},
		dispatcher: &recordingDispatcher{},
		docs:       &stubDocuments{present: map[string]bool{}},
		clock:      &stubClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = NewService(f.repo, f.events,
		WithClock(f.clock),
		WithTransactionManager(&snapshotTx{repo: f.repo, events: f.events}),
		WithNotificationDispatcher(f.dispatcher),
		WithDocumentChecker(f.docs),
	)
	return f
}

func (f *fixture) create(t *testing.T, passport string) *Employee {
	t.Helper()
	created, err := f.svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Actor:          hrActor,
		FullName:       "Aisha Khan",
		PassportNumber: passport,
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}
	return created
}

func (f *fixture) upload(employeeID string, types ...string) {
	for _, docType := range types {
		f.docs.present[employeeID+"/"+docType] = true
	}
}

func (f *fixture) advance(t *testing.T, emp *Employee, flag workflow.Flag) *AdvanceStepResult {
	t.Helper()
	step, _ := workflow.StepFor(flag)
	actor := hrActor
	switch step.Actor {
	case workflow.RoleEmployee:
		actor = employeeActor(emp.ID)
	case workflow.RoleExternal:
		actor = externalActor
	}
	res, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{Actor: actor, EmployeeID: emp.ID, Flag: flag})
	if err != nil {
		t.Fatalf("AdvanceStep(%s) returned error: %v", flag, err)
	}
	return res
}

func TestService_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	f := newFixture()
	email := " Aisha.Khan@Example.com "

	created, err := f.svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Actor:          hrActor,
		FullName:       "  Aisha   Khan ",
		Email:          &email,
		PassportNumber: " p1234 567 ",
		Nationality:    " India ",
		JobTitle:       "Engineer",
		VisaType:       "employment",
	})
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if created.FullName != "Aisha Khan" {
		t.Fatalf("expected normalized name, got %q", created.FullName)
	}
	if created.PassportNumber != "P1234567" {
		t.Fatalf("expected normalized passport, got %q", created.PassportNumber)
	}
	if created.Email == nil || *created.Email != "aisha.khan@example.com" {
		t.Fatalf("expected normalized email, got %+v", created.Email)
	}
	if created.Nationality != "India" {
		t.Fatalf("expected trimmed nationality, got %q", created.Nationality)
	}
	if created.Flags != 0 || created.Stage() != workflow.StagePreArrival {
		t.Fatalf("expected fresh record, got flags=%v stage=%s", created.Flags.Names(), created.Stage())
	}
	if !created.CreatedAt.Equal(f.clock.now) || created.Version != 1 {
		t.Fatalf("unexpected timestamps or version: %+v", created)
	}
	if len(f.dispatcher.sent) != 1 || f.dispatcher.sent[0].Audience != workflow.AudienceHR {
		t.Fatalf("expected HR notification, got %+v", f.dispatcher.sent)
	}
}

func TestService_CreateEmployee_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	bad := "not-an-email"

	cases := []struct {
		name string
		in   CreateEmployeeInput
		want error
	}{
		{"employee actor", CreateEmployeeInput{Actor: employeeActor(uuid.NewString()), FullName: "A", PassportNumber: "P1234567"}, ErrForbidden},
		{"missing actor", CreateEmployeeInput{FullName: "A", PassportNumber: "P1234567"}, ErrInvalidActor},
		{"empty name", CreateEmployeeInput{Actor: hrActor, FullName: "  ", PassportNumber: "P1234567"}, ErrInvalidFullName},
		{"short passport", CreateEmployeeInput{Actor: hrActor, FullName: "A", PassportNumber: "P1"}, ErrInvalidPassportNumber},
		{"bad email", CreateEmployeeInput{Actor: hrActor, FullName: "A", PassportNumber: "P1234567", Email: &bad}, ErrInvalidEmail},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.CreateEmployee(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_CreateEmployee_DuplicatePassport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.create(t, "P1234567")

	_, err := f.svc.CreateEmployee(context.Background(), CreateEmployeeInput{Actor: hrActor, FullName: "Other", PassportNumber: "p1234567"})
	if !errors.Is(err, ErrPassportAlreadyExists) {
		t.Fatalf("expected ErrPassportAlreadyExists, got %v", err)
	}
}

func TestService_AdvanceStep_ExampleScenario(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.upload(emp.ID, "passport", "photo")

	res := f.advance(t, emp, workflow.FlagDocumentsUploaded)
	if res.Employee.Stage() != workflow.StagePreArrival {
		t.Fatalf("expected pre-arrival, got %s", res.Employee.Stage())
	}
	if res.Employee.Version != 2 {
		t.Fatalf("expected version bump, got %d", res.Employee.Version)
	}

	f.advance(t, emp, workflow.FlagHRReviewed)
	f.advance(t, emp, workflow.FlagDisoInfoCompleted)
	f.advance(t, emp, workflow.FlagEntryPermitGenerated)
	res = f.advance(t, emp, workflow.FlagArrivalUpdated)
	if res.Employee.Stage() != workflow.StageInCountry {
		t.Fatalf("expected in-country, got %s", res.Employee.Stage())
	}

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(emp.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagMedicalCertificateUploaded,
	})
	var preErr *workflow.PrerequisiteError
	if !errors.As(err, &preErr) || preErr.Missing != workflow.FlagMedicalAppointmentScheduled {
		t.Fatalf("expected prerequisite error naming medical_appointment_scheduled, got %v", err)
	}
}

func TestService_AdvanceStep_FullRun(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P7654321")
	f.upload(emp.ID, "passport", "photo", "medical_certificate", "stamped_visa")

	for _, step := range workflow.Steps() {
		f.clock.now = f.clock.now.Add(time.Hour)
		f.advance(t, emp, step.Flag)
	}

	found, err := f.svc.GetEmployee(context.Background(), GetEmployeeInput{Actor: hrActor, ID: emp.ID})
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if found.Stage() != workflow.StageCompleted || !found.Flags.Complete() {
		t.Fatalf("expected completed record, got %s %v", found.Stage(), found.Flags.Names())
	}

	history, err := f.svc.ListStepHistory(context.Background(), ListStepHistoryInput{Actor: employeeActor(emp.ID), EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("ListStepHistory returned error: %v", err)
	}
	if len(history) != 15 {
		t.Fatalf("expected 15 events, got %d", len(history))
	}
	if history[12].Flag != workflow.FlagMohreApproved || history[12].ActorRole != workflow.RoleExternal {
		t.Fatalf("expected external MOHRE approval event, got %+v", history[12])
	}

	_, err = f.svc.AdvanceStep(context.Background(), AdvanceStepInput{Actor: hrActor, EmployeeID: emp.ID, Flag: workflow.FlagVisaReceived})
	if !errors.Is(err, workflow.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestService_AdvanceStep_RequiresDocuments(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.upload(emp.ID, "passport")

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(emp.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagDocumentsUploaded,
	})
	var missing *MissingDocumentError
	if !errors.As(err, &missing) || missing.DocumentType != "photo" {
		t.Fatalf("expected missing photo, got %v", err)
	}
	if !errors.Is(err, ErrDocumentRequired) {
		t.Fatalf("expected ErrDocumentRequired, got %v", err)
	}
	if f.repo.saveCalls != 0 {
		t.Fatalf("expected no flag save, got %d", f.repo.saveCalls)
	}
}

func TestService_AdvanceStep_EmployeeCannotActOnOtherRecord(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	other := f.create(t, "P7654321")
	f.upload(emp.ID, "passport", "photo")

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(other.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagDocumentsUploaded,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_AdvanceStep_WrongActor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(emp.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagHRReviewed,
	})
	if !errors.Is(err, workflow.ErrWrongActor) {
		t.Fatalf("expected ErrWrongActor, got %v", err)
	}
}

func TestService_AdvanceStep_StaleVersion(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.upload(emp.ID, "passport", "photo")

	stale := emp.Version
	f.advance(t, emp, workflow.FlagDocumentsUploaded)

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:           hrActor,
		EmployeeID:      emp.ID,
		Flag:            workflow.FlagHRReviewed,
		ExpectedVersion: &stale,
	})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestService_AdvanceStep_RollsBackWhenDispatchFails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.upload(emp.ID, "passport", "photo")
	f.dispatcher.err = errors.New("smtp down")

	_, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(emp.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagDocumentsUploaded,
		Payload:    map[string]any{"passport_expiry": "2031-05-01"},
	})
	if !errors.Is(err, ErrNotificationUndelivered) {
		t.Fatalf("expected ErrNotificationUndelivered, got %v", err)
	}

	found, err := f.repo.FindByID(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Flags.Has(workflow.FlagDocumentsUploaded) || found.Version != emp.Version {
		t.Fatalf("expected transition to be rolled back, got %v v%d", found.Flags.Names(), found.Version)
	}
	if len(f.events.events) != 0 {
		t.Fatalf("expected no step events, got %d", len(f.events.events))
	}
}

func TestService_AdvanceStep_PersistsPayload(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.upload(emp.ID, "passport", "photo")

	payload := map[string]any{"passport_expiry": "2031-05-01"}
	res, err := f.svc.AdvanceStep(context.Background(), AdvanceStepInput{
		Actor:      employeeActor(emp.ID),
		EmployeeID: emp.ID,
		Flag:       workflow.FlagDocumentsUploaded,
		Payload:    payload,
	})
	if err != nil {
		t.Fatalf("AdvanceStep returned error: %v", err)
	}
	payload["passport_expiry"] = "mutated"

	if res.Event.Payload["passport_expiry"] != "2031-05-01" {
		t.Fatalf("expected payload copy, got %+v", res.Event.Payload)
	}
	if res.Event.ActorID != "user-"+emp.ID {
		t.Fatalf("unexpected actor id %s", res.Event.ActorID)
	}
	if len(res.Transition.Notifications) != 2 {
		t.Fatalf("expected two notification intents, got %d", len(res.Transition.Notifications))
	}
}

func TestService_GetNextAction(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")

	res, err := f.svc.GetNextAction(context.Background(), GetNextActionInput{Actor: hrActor, EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("GetNextAction returned error: %v", err)
	}
	if res.Action.Actionable || res.Action.WaitingOn != workflow.RoleEmployee {
		t.Fatalf("expected HR to wait on employee, got %+v", res.Action)
	}

	res, err = f.svc.GetNextAction(context.Background(), GetNextActionInput{Actor: employeeActor(emp.ID), EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("GetNextAction returned error: %v", err)
	}
	if !res.Action.Actionable || res.Action.Step.Flag != workflow.FlagDocumentsUploaded {
		t.Fatalf("expected employee to upload documents, got %+v", res.Action)
	}
}

func TestService_GetEmployee_InvalidID(t *testing.T) {
	t.Parallel()

	f := newFixture()
	if _, err := f.svc.GetEmployee(context.Background(), GetEmployeeInput{Actor: hrActor, ID: "emp-1"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := f.svc.GetEmployee(context.Background(), GetEmployeeInput{Actor: hrActor, ID: uuid.NewString()}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_UpdateEmployeeProfile(t *testing.T) {
	t.Parallel()

	f := newFixture()
	emp := f.create(t, "P1234567")
	f.create(t, "P7654321")

	dept := "  Engineering "
	updated, err := f.svc.UpdateEmployeeProfile(context.Background(), UpdateEmployeeProfileInput{
		Actor:           hrActor,
		ID:              emp.ID,
		Department:      &dept,
		ExpectedVersion: &emp.Version,
	})
	if err != nil {
		t.Fatalf("UpdateEmployeeProfile returned error: %v", err)
	}
	if updated.Department != "Engineering" || updated.Version != emp.Version+1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	dup := "P7654321"
	if _, err := f.svc.UpdateEmployeeProfile(context.Background(), UpdateEmployeeProfileInput{Actor: hrActor, ID: emp.ID, PassportNumber: &dup}); !errors.Is(err, ErrPassportAlreadyExists) {
		t.Fatalf("expected ErrPassportAlreadyExists, got %v", err)
	}

	if _, err := f.svc.UpdateEmployeeProfile(context.Background(), UpdateEmployeeProfileInput{Actor: hrActor, ID: emp.ID, ExpectedVersion: &emp.Version}); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestService_ListEmployees_StageFilterAndPagination(t *testing.T) {
	t.Parallel()

	f := newFixture()
	for i := 0; i < 3; i++ {
		emp := f.create(t, fmt.Sprintf("P100000%d", i))
		if i == 0 {
			continue
		}
		f.upload(emp.ID, "passport", "photo")
		for _, flag := range []workflow.Flag{
			workflow.FlagDocumentsUploaded,
			workflow.FlagHRReviewed,
			workflow.FlagDisoInfoCompleted,
			workflow.FlagEntryPermitGenerated,
			workflow.FlagArrivalUpdated,
		} {
			f.advance(t, emp, flag)
		}
	}

	inCountry := workflow.StageInCountry
	page1, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: hrActor, PageSize: 1, Stage: &inCountry})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(page1.Employees) != 1 || page1.NextPageToken == "" {
		t.Fatalf("expected one employee and a next token, got %d %q", len(page1.Employees), page1.NextPageToken)
	}

	page2, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: hrActor, PageSize: 1, PageToken: page1.NextPageToken, Stage: &inCountry})
	if err != nil {
		t.Fatalf("ListEmployees page2 returned error: %v", err)
	}
	if len(page2.Employees) != 1 || page2.NextPageToken != "" {
		t.Fatalf("expected last page with one employee, got %d %q", len(page2.Employees), page2.NextPageToken)
	}

	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: hrActor, PageSize: 500}); !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: hrActor, PageToken: "-1"}); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
	bogus := workflow.Stage("archived")
	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: hrActor, Stage: &bogus}); !errors.Is(err, workflow.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
	if _, err := f.svc.ListEmployees(context.Background(), ListEmployeesInput{Actor: employeeActor(uuid.NewString())}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
