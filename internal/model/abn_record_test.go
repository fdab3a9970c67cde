package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validRecord() *AbnRecord {
	return &AbnRecord{
		ABN:              "12345678901",
		Status:           StatusActive,
		OrganisationName: "Example Pty Ltd",
		GSTStatus:        GSTCancelled,
	}
}

func TestRecordValidate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(r *AbnRecord)
		wantErrs int
		field    string
	}{
		{"valid", func(r *AbnRecord) {}, 0, ""},
		{"abn too short", func(r *AbnRecord) { r.ABN = "1234567890" }, 1, "abn"},
		{"abn non numeric", func(r *AbnRecord) { r.ABN = "1234567890a" }, 1, "abn"},
		{"abn empty", func(r *AbnRecord) { r.ABN = "" }, 1, "abn"},
		{"bad status", func(r *AbnRecord) { r.Status = "Pending" }, 1, "status"},
		{"entity type code too long", func(r *AbnRecord) { r.EntityTypeCode = strings.Repeat("X", 11) }, 1, "entityTypeCode"},
		{"entity type text too long", func(r *AbnRecord) { r.EntityTypeText = strings.Repeat("X", 101) }, 1, "entityTypeText"},
		{"multibyte entity type text at limit", func(r *AbnRecord) { r.EntityTypeText = strings.Repeat("会", 100) }, 0, ""},
		{"no names", func(r *AbnRecord) { r.OrganisationName = "" }, 1, "legalName"},
		{"legal name alone is fine", func(r *AbnRecord) { r.OrganisationName = ""; r.LegalName = "John Smith" }, 0, ""},
		{"acn too short", func(r *AbnRecord) { r.ACN = "12345678" }, 1, "acn"},
		{"acn non numeric", func(r *AbnRecord) { r.ACN = "12345678x" }, 1, "acn"},
		{"acn optional", func(r *AbnRecord) { r.ACN = "" }, 0, ""},
		{"bad gst status", func(r *AbnRecord) { r.GSTStatus = "Pending" }, 1, "gstStatus"},
		{"state too long", func(r *AbnRecord) { r.State = strings.Repeat("X", 11) }, 1, "state"},
		{"postcode too long", func(r *AbnRecord) { r.Postcode = strings.Repeat("9", 11) }, 1, "postcode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(r)
			errs := r.Validate()
			if len(errs) != tc.wantErrs {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, tc.wantErrs)
			}
			if tc.wantErrs > 0 && errs[0].Field != tc.field {
				t.Errorf("got field %q, want %q", errs[0].Field, tc.field)
			}
		})
	}
}

func TestRecordApplyDefaults(t *testing.T) {
	now := time.Now()
	r := &AbnRecord{ABN: "12345678901", LegalName: "John Smith"}
	r.ApplyDefaults(now)

	if r.Status != StatusActive {
		t.Errorf("status = %q, want %q", r.Status, StatusActive)
	}
	if r.GSTStatus != GSTCancelled {
		t.Errorf("gst status = %q, want %q", r.GSTStatus, GSTCancelled)
	}
	if !r.AbnStatusFromDate.Equal(now) {
		t.Errorf("abnStatusFromDate = %v, want %v", r.AbnStatusFromDate, now)
	}

	// Explicit values survive
	r2 := &AbnRecord{ABN: "12345678901", LegalName: "John Smith", Status: StatusCancelled, GSTStatus: GSTRegistered}
	r2.ApplyDefaults(now)
	if r2.Status != StatusCancelled || r2.GSTStatus != GSTRegistered {
		t.Errorf("defaults overwrote explicit values: %q %q", r2.Status, r2.GSTStatus)
	}
}

func TestFullEntityName(t *testing.T) {
	r := &AbnRecord{OrganisationName: "Example Pty Ltd", LegalName: "John Smith"}
	if got := r.FullEntityName(); got != "Example Pty Ltd" {
		t.Errorf("got %q, want organisation name", got)
	}
	r.OrganisationName = ""
	if got := r.FullEntityName(); got != "John Smith" {
		t.Errorf("got %q, want legal name", got)
	}
}

func TestRecordMarshalIncludesFullEntityName(t *testing.T) {
	r := validRecord()
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["fullEntityName"] != "Example Pty Ltd" {
		t.Errorf("fullEntityName = %v, want %q", decoded["fullEntityName"], "Example Pty Ltd")
	}
	if _, ok := decoded["abn"]; !ok {
		t.Error("abn missing from JSON")
	}
}

func TestValidABN(t *testing.T) {
	if !ValidABN("12345678901") {
		t.Error("11 digits rejected")
	}
	for _, bad := range []string{"", "123", "123456789012", "1234567890a"} {
		if ValidABN(bad) {
			t.Errorf("%q accepted", bad)
		}
	}
}
