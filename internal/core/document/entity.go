package document

import "time"

// Type は書類の種別です。
type Type string

const (
	TypePassport           Type = "passport"
	TypePhoto              Type = "photo"
	TypeCertificate        Type = "certificate"
	TypeMedicalCertificate Type = "medical_certificate"
	TypeEntryPermit        Type = "entry_permit"
	TypeContract           Type = "contract"
	TypeStampedVisa        Type = "stamped_visa"
	TypeOther              Type = "other"
)

// Valid は定義済みの種別かどうかを返します。
func (t Type) Valid() bool {
	switch t {
	case TypePassport, TypePhoto, TypeCertificate, TypeMedicalCertificate,
		TypeEntryPermit, TypeContract, TypeStampedVisa, TypeOther:
		return true
	default:
		return false
	}
}

// Status は書類の審査状態です。
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Document はアップロードされた書類のメタデータです。本文は別途取得します。
type Document struct {
	ID              string
	EmployeeID      string
	Type            Type
	FileName        string
	ContentType     string
	SizeBytes       int64
	Status          Status
	ReviewerComment string
	UploadedAt      time.Time
	ReviewedAt      *time.Time
}
