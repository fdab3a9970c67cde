package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
)

// Name types
const (
	TypeTradingName  = "TradingName"
	TypeBusinessName = "BusinessName"
	TypeLegalName    = "LegalName"
	TypeOther        = "Other"
)

// NameTypes lists the accepted name type values.
var NameTypes = []string{TypeTradingName, TypeBusinessName, TypeLegalName, TypeOther}

// AbnName is one named alias (trading/business/legal/other) associated with
// an AbnRecord. The (abn, name, type) triple is unique.
type AbnName struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ABN       string    `json:"abn" gorm:"column:abn;type:varchar(11);not null;uniqueIndex:idx_abn_name_type"`
	Name      string    `json:"name" gorm:"type:varchar(500);not null;uniqueIndex:idx_abn_name_type"`
	Type      string    `json:"type" gorm:"type:varchar(20);default:'BusinessName';index;uniqueIndex:idx_abn_name_type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AbnName) TableName() string {
	return "abn_names"
}

// ApplyDefaults trims the name text and fills the default type.
func (n *AbnName) ApplyDefaults() {
	n.Name = strings.TrimSpace(n.Name)
	if n.Type == "" {
		n.Type = TypeBusinessName
	}
}

// Validate checks all field constraints and returns the violations in field
// order.
func (n *AbnName) Validate() []apperr.FieldError {
	var errs []apperr.FieldError

	if !abnPattern.MatchString(n.ABN) {
		errs = append(errs, apperr.FieldError{Field: "abn", Message: "ABN must be exactly 11 digits"})
	}
	if l := utf8.RuneCountInString(n.Name); l < 1 || l > 500 {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "Name must be between 1 and 500 characters"})
	}
	if !ValidNameType(n.Type) {
		errs = append(errs, apperr.FieldError{Field: "type", Message: "Type must be one of: TradingName, BusinessName, LegalName, Other"})
	}
	return errs
}

// ValidNameType reports whether t is an accepted name type.
func ValidNameType(t string) bool {
	for _, v := range NameTypes {
		if t == v {
			return true
		}
	}
	return false
}

// NameWithRecord is a name entry joined with the summary projection of its
// record. The join is resolved by lookup at read time, never stored.
type NameWithRecord struct {
	AbnName
	AbnRecord *RecordSummary `json:"abnRecord,omitempty"`
}

// NameOverview carries the headline counts of the name collection.
type NameOverview struct {
	TotalNames int64 `json:"totalNames"`
	UniqueAbns int64 `json:"uniqueAbns"`
}

// NameStats aggregates the name collection for the stats endpoint.
type NameStats struct {
	Overview  NameOverview `json:"overview"`
	NameTypes []GroupCount `json:"nameTypes"`
}
