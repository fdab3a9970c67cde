package model

import (
	"encoding/json"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
)

// Record statuses
const (
	StatusActive    = "Active"
	StatusCancelled = "Cancelled"
)

// GST statuses
const (
	GSTRegistered = "Registered"
	GSTCancelled  = "Cancelled"
)

var (
	abnPattern = regexp.MustCompile(`^\d{11}$`)
	acnPattern = regexp.MustCompile(`^\d{9}$`)
)

// AbnRecord is the canonical registration record for a business entity,
// keyed by its 11-digit ABN.
type AbnRecord struct {
	ID                uint       `json:"-" gorm:"primarykey"`
	ABN               string     `json:"abn" gorm:"column:abn;type:varchar(11);uniqueIndex;not null"`
	Status            string     `json:"status" gorm:"type:varchar(20);default:'Active';index"`
	AbnStatusFromDate time.Time  `json:"abnStatusFromDate"`
	EntityTypeCode    string     `json:"entityTypeCode" gorm:"type:varchar(10);index"`
	EntityTypeText    string     `json:"entityTypeText" gorm:"type:varchar(100)"`
	LegalName         string     `json:"legalName"`
	OrganisationName  string     `json:"organisationName"`
	ACN               string     `json:"acn" gorm:"column:acn;type:varchar(9)"`
	GSTStatus         string     `json:"gstStatus" gorm:"type:varchar(20);default:'Cancelled'"`
	GSTFromDate       *time.Time `json:"gstFromDate,omitempty"`
	State             string     `json:"state" gorm:"type:varchar(10);index"`
	Postcode          string     `json:"postcode" gorm:"type:varchar(10)"`
	LastUpdated       time.Time  `json:"lastUpdated" gorm:"index"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (AbnRecord) TableName() string {
	return "abn_records"
}

// FullEntityName returns the organisation name when present, otherwise the
// legal name.
func (r *AbnRecord) FullEntityName() string {
	if r.OrganisationName != "" {
		return r.OrganisationName
	}
	return r.LegalName
}

// MarshalJSON includes the derived fullEntityName field in API responses.
func (r AbnRecord) MarshalJSON() ([]byte, error) {
	type alias AbnRecord
	return json.Marshal(struct {
		alias
		FullEntityName string `json:"fullEntityName"`
	}{
		alias:          alias(r),
		FullEntityName: r.FullEntityName(),
	})
}

// ApplyDefaults fills enum defaults and the status-from date for new records.
func (r *AbnRecord) ApplyDefaults(now time.Time) {
	if r.Status == "" {
		r.Status = StatusActive
	}
	if r.GSTStatus == "" {
		r.GSTStatus = GSTCancelled
	}
	if r.AbnStatusFromDate.IsZero() {
		r.AbnStatusFromDate = now
	}
}

// Validate checks all field constraints and returns the violations in field
// order. An empty slice means the record is valid.
func (r *AbnRecord) Validate() []apperr.FieldError {
	var errs []apperr.FieldError

	if !abnPattern.MatchString(r.ABN) {
		errs = append(errs, apperr.FieldError{Field: "abn", Message: "ABN must be exactly 11 digits"})
	}
	if r.Status != StatusActive && r.Status != StatusCancelled {
		errs = append(errs, apperr.FieldError{Field: "status", Message: "Status must be either Active or Cancelled"})
	}
	if utf8.RuneCountInString(r.EntityTypeCode) > 10 {
		errs = append(errs, apperr.FieldError{Field: "entityTypeCode", Message: "Entity type code cannot exceed 10 characters"})
	}
	if utf8.RuneCountInString(r.EntityTypeText) > 100 {
		errs = append(errs, apperr.FieldError{Field: "entityTypeText", Message: "Entity type text cannot exceed 100 characters"})
	}
	if r.LegalName == "" && r.OrganisationName == "" {
		errs = append(errs, apperr.FieldError{Field: "legalName", Message: "Either legalName or organisationName is required"})
	}
	if r.ACN != "" && !acnPattern.MatchString(r.ACN) {
		errs = append(errs, apperr.FieldError{Field: "acn", Message: "ACN must be exactly 9 digits"})
	}
	if r.GSTStatus != GSTRegistered && r.GSTStatus != GSTCancelled {
		errs = append(errs, apperr.FieldError{Field: "gstStatus", Message: "GST status must be either Registered or Cancelled"})
	}
	if utf8.RuneCountInString(r.State) > 10 {
		errs = append(errs, apperr.FieldError{Field: "state", Message: "State cannot exceed 10 characters"})
	}
	if utf8.RuneCountInString(r.Postcode) > 10 {
		errs = append(errs, apperr.FieldError{Field: "postcode", Message: "Postcode cannot exceed 10 characters"})
	}
	return errs
}

// ValidABN reports whether s is a well-formed 11-digit ABN.
func ValidABN(s string) bool {
	return abnPattern.MatchString(s)
}

// RecordSummary is the projection of an AbnRecord joined onto name entries.
type RecordSummary struct {
	ABN              string `json:"abn"`
	Status           string `json:"status"`
	LegalName        string `json:"legalName"`
	OrganisationName string `json:"organisationName"`
	EntityTypeCode   string `json:"entityTypeCode"`
}

// Summary builds the joined projection of the record.
func (r *AbnRecord) Summary() *RecordSummary {
	return &RecordSummary{
		ABN:              r.ABN,
		Status:           r.Status,
		LegalName:        r.LegalName,
		OrganisationName: r.OrganisationName,
		EntityTypeCode:   r.EntityTypeCode,
	}
}

// GroupCount is one bucket of a grouped aggregation.
type GroupCount struct {
	Key   string `json:"key" gorm:"column:key"`
	Count int64  `json:"count" gorm:"column:count"`
}

// RecordOverview carries the headline counts of the record collection.
type RecordOverview struct {
	TotalRecords     int64 `json:"totalRecords"`
	ActiveRecords    int64 `json:"activeRecords"`
	CancelledRecords int64 `json:"cancelledRecords"`
	GSTRegistered    int64 `json:"gstRegistered"`
}

// RecordStats aggregates the record collection for the stats endpoint.
type RecordStats struct {
	Overview    RecordOverview `json:"overview"`
	EntityTypes []GroupCount   `json:"entityTypes"`
	States      []GroupCount   `json:"states"`
}
