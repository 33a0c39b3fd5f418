package workflow

import "fmt"

// Audience は通知の宛先種別です。
type Audience string

const (
	AudienceHR       Audience = "hr"
	AudienceEmployee Audience = "employee"
)

// Severity は通知の重要度です。
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Valid は定義済みの重要度かどうかを返します。
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning:
		return true
	default:
		return false
	}
}

// NotificationIntent は遷移に伴って送るべき通知です。
type NotificationIntent struct {
	Audience Audience
	Message  string
	Severity Severity
}

type intentTemplate struct {
	audience Audience
	format   string
	severity Severity
	named    bool
}

// %s には社員の表示名が入ります。
var intentTemplates = map[Flag][]intentTemplate{
	FlagDocumentsUploaded: {
		{audience: AudienceHR, format: "%s has uploaded onboarding documents for review.", severity: SeverityInfo, named: true},
		{audience: AudienceEmployee, format: "Your documents were submitted. HR will review them shortly.", severity: SeveritySuccess},
	},
	FlagHRReviewed: {
		{audience: AudienceEmployee, format: "HR has reviewed your documents.", severity: SeveritySuccess},
	},
	FlagDisoInfoCompleted: {
		{audience: AudienceEmployee, format: "Your entry permit is ready to download.", severity: SeverityInfo},
	},
	FlagEntryPermitGenerated: {
		{audience: AudienceHR, format: "%s has downloaded the entry permit.", severity: SeverityInfo, named: true},
	},
	FlagArrivalUpdated: {
		{audience: AudienceHR, format: "%s has arrived in the UAE. Schedule the medical appointment.", severity: SeverityWarning, named: true},
	},
	FlagMedicalAppointmentScheduled: {
		{audience: AudienceEmployee, format: "Your medical appointment has been scheduled.", severity: SeverityInfo},
	},
	FlagMedicalCertificateUploaded: {
		{audience: AudienceHR, format: "%s uploaded the medical fitness certificate.", severity: SeverityInfo, named: true},
	},
	FlagBiometricConfirmed: {
		{audience: AudienceHR, format: "%s confirmed biometrics. Submit the residence visa application.", severity: SeverityWarning, named: true},
	},
	FlagResidenceVisaSubmitted: {
		{audience: AudienceEmployee, format: "Your residence visa application has been submitted.", severity: SeverityInfo},
	},
	FlagContractInitiated: {
		{audience: AudienceEmployee, format: "Your employment contract is ready for signature.", severity: SeverityWarning},
	},
	FlagContractSigned: {
		{audience: AudienceHR, format: "%s signed the employment contract.", severity: SeveritySuccess, named: true},
	},
	FlagMohreSubmitted: {
		{audience: AudienceEmployee, format: "Your contract has been submitted to MOHRE.", severity: SeverityInfo},
	},
	FlagMohreApproved: {
		{audience: AudienceHR, format: "MOHRE approved the contract for %s.", severity: SeveritySuccess, named: true},
		{audience: AudienceEmployee, format: "MOHRE approved your employment contract.", severity: SeveritySuccess},
	},
	FlagVisaReceived: {
		{audience: AudienceEmployee, format: "Your residence visa has been issued. Upload the stamped visa page.", severity: SeveritySuccess},
	},
	FlagStampedVisaUploaded: {
		{audience: AudienceHR, format: "%s completed visa processing.", severity: SeveritySuccess, named: true},
		{audience: AudienceEmployee, format: "Visa processing is complete. Welcome aboard!", severity: SeveritySuccess},
	},
}

func intentsFor(flag Flag, name string) []NotificationIntent {
	templates := intentTemplates[flag]
	out := make([]NotificationIntent, 0, len(templates))
	for _, t := range templates {
		msg := t.format
		if t.named {
			msg = fmt.Sprintf(t.format, name)
		}
		out = append(out, NotificationIntent{Audience: t.audience, Message: msg, Severity: t.severity})
	}
	return out
}
