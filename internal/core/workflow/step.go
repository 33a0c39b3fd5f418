package workflow

import (
	"fmt"
	"strings"
)

// Flag はワークフローの各ステップ完了を示すフラグです。
type Flag uint8

const (
	FlagDocumentsUploaded Flag = iota + 1
	FlagHRReviewed
	FlagDisoInfoCompleted
	FlagEntryPermitGenerated
	FlagArrivalUpdated
	FlagMedicalAppointmentScheduled
	FlagMedicalCertificateUploaded
	FlagBiometricConfirmed
	FlagResidenceVisaSubmitted
	FlagContractInitiated
	FlagContractSigned
	FlagMohreSubmitted
	FlagMohreApproved
	FlagVisaReceived
	FlagStampedVisaUploaded

	flagCount = int(FlagStampedVisaUploaded)
)

var flagNames = [...]string{
	FlagDocumentsUploaded:           "documents_uploaded",
	FlagHRReviewed:                  "hr_reviewed",
	FlagDisoInfoCompleted:           "diso_info_completed",
	FlagEntryPermitGenerated:        "entry_permit_generated",
	FlagArrivalUpdated:              "arrival_updated",
	FlagMedicalAppointmentScheduled: "medical_appointment_scheduled",
	FlagMedicalCertificateUploaded:  "medical_certificate_uploaded",
	FlagBiometricConfirmed:          "biometric_confirmed",
	FlagResidenceVisaSubmitted:      "residence_visa_submitted",
	FlagContractInitiated:           "contract_initiated",
	FlagContractSigned:              "contract_signed",
	FlagMohreSubmitted:              "mohre_submitted",
	FlagMohreApproved:               "mohre_approved",
	FlagVisaReceived:                "visa_received",
	FlagStampedVisaUploaded:         "stamped_visa_uploaded",
}

// Valid は定義済みのフラグかどうかを返します。
func (f Flag) Valid() bool {
	return f >= FlagDocumentsUploaded && int(f) <= flagCount
}

// String は永続化・通信で用いるフラグ名を返します。
func (f Flag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
	return flagNames[f]
}

// ParseFlag はフラグ名を Flag に変換します。
func ParseFlag(name string) (Flag, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for f := FlagDocumentsUploaded; int(f) <= flagCount; f++ {
		if flagNames[f] == normalized {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownFlag)
}

// Role はステップを完了できるアクターの種別です。
type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
	// RoleExternal は MOHRE など外部システムからのコールバックを表します。
	RoleExternal Role = "external"
)

// Valid は定義済みのロールかどうかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleHR, RoleEmployee, RoleExternal:
		return true
	default:
		return false
	}
}

// ParseRole はロール名を Role に変換します。
func ParseRole(name string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(name)))
	if !role.Valid() {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownRole)
	}
	return role, nil
}

// Actor は認証済みの操作主体です。エンジンは与えられた値をそのまま信頼します。
type Actor struct {
	ID         string
	Role       Role
	EmployeeID string
}

// Step はステップ表の 1 行です。
type Step struct {
	Number        int
	Flag          Flag
	Actor         Role
	Prerequisites []Flag
	Title         string
}

var steps = []Step{
	{Number: 1, Flag: FlagDocumentsUploaded, Actor: RoleEmployee, Title: "Upload passport and personal documents"},
	{Number: 2, Flag: FlagHRReviewed, Actor: RoleHR, Prerequisites: []Flag{FlagDocumentsUploaded}, Title: "Review uploaded documents"},
	{Number: 3, Flag: FlagDisoInfoCompleted, Actor: RoleHR, Prerequisites: []Flag{FlagHRReviewed}, Title: "Complete DISO information"},
	{Number: 4, Flag: FlagEntryPermitGenerated, Actor: RoleEmployee, Prerequisites: []Flag{FlagDisoInfoCompleted}, Title: "Download entry permit"},
	{Number: 5, Flag: FlagArrivalUpdated, Actor: RoleEmployee, Prerequisites: []Flag{FlagEntryPermitGenerated}, Title: "Confirm arrival in the UAE"},
	{Number: 6, Flag: FlagMedicalAppointmentScheduled, Actor: RoleHR, Prerequisites: []Flag{FlagArrivalUpdated}, Title: "Schedule medical appointment"},
	{Number: 7, Flag: FlagMedicalCertificateUploaded, Actor: RoleEmployee, Prerequisites: []Flag{FlagMedicalAppointmentScheduled}, Title: "Upload medical fitness certificate"},
	{Number: 8, Flag: FlagBiometricConfirmed, Actor: RoleEmployee, Prerequisites: []Flag{FlagMedicalCertificateUploaded}, Title: "Confirm biometrics appointment"},
	{Number: 9, Flag: FlagResidenceVisaSubmitted, Actor: RoleHR, Prerequisites: []Flag{FlagBiometricConfirmed}, Title: "Submit residence visa application"},
	{Number: 10, Flag: FlagContractInitiated, Actor: RoleHR, Prerequisites: []Flag{FlagResidenceVisaSubmitted}, Title: "Initiate employment contract"},
	{Number: 11, Flag: FlagContractSigned, Actor: RoleEmployee, Prerequisites: []Flag{FlagContractInitiated}, Title: "Sign employment contract"},
	{Number: 12, Flag: FlagMohreSubmitted, Actor: RoleHR, Prerequisites: []Flag{FlagContractSigned}, Title: "Submit contract to MOHRE"},
	{Number: 12, Flag: FlagMohreApproved, Actor: RoleExternal, Prerequisites: []Flag{FlagMohreSubmitted}, Title: "MOHRE approval"},
	{Number: 13, Flag: FlagVisaReceived, Actor: RoleHR, Prerequisites: []Flag{FlagMohreApproved}, Title: "Record residence visa issuance"},
	{Number: 14, Flag: FlagStampedVisaUploaded, Actor: RoleEmployee, Prerequisites: []Flag{FlagVisaReceived}, Title: "Upload stamped visa page"},
}

// Steps はステップ表のコピーを表の順序で返します。
func Steps() []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.clone()
	}
	return out
}

// StepFor は指定フラグのステップを返します。
func StepFor(f Flag) (Step, bool) {
	if !f.Valid() {
		return Step{}, false
	}
	return steps[f-1].clone(), true
}

func (s Step) clone() Step {
	if s.Prerequisites != nil {
		s.Prerequisites = append([]Flag(nil), s.Prerequisites...)
	}
	return s
}
