package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
	"github.com/ManishKhulbe/Firmable-backend/internal/store/storetest"
)

func newRecordService() (*RecordService, *storetest.RecordStore, *storetest.NameStore) {
	records := storetest.NewRecordStore()
	names := storetest.NewNameStore()
	return NewRecordService(records, names, zap.NewNop()), records, names
}

func testRecord(abn string) *model.AbnRecord {
	return &model.AbnRecord{
		ABN:              abn,
		OrganisationName: "Example Pty Ltd",
		EntityTypeCode:   "PRV",
		State:            "NSW",
	}
}

func TestRecordCreate(t *testing.T) {
	svc, records, _ := newRecordService()

	r := testRecord("12345678901")
	if err := svc.Create(r); err != nil {
		t.Fatal(err)
	}
	if r.Status != model.StatusActive {
		t.Errorf("status = %q, want default Active", r.Status)
	}
	if r.GSTStatus != model.GSTCancelled {
		t.Errorf("gstStatus = %q, want default Cancelled", r.GSTStatus)
	}
	if r.LastUpdated.IsZero() || r.AbnStatusFromDate.IsZero() {
		t.Error("lastUpdated/abnStatusFromDate not set on create")
	}

	stored, err := records.GetByABN("12345678901")
	if err != nil {
		t.Fatal(err)
	}
	if stored.OrganisationName != "Example Pty Ltd" {
		t.Errorf("stored organisation name = %q", stored.OrganisationName)
	}
}

func TestRecordCreateDuplicate(t *testing.T) {
	svc, _, _ := newRecordService()

	if err := svc.Create(testRecord("12345678901")); err != nil {
		t.Fatal(err)
	}
	err := svc.Create(testRecord("12345678901"))
	if !errors.Is(err, apperr.ErrDuplicateKey) {
		t.Fatalf("got %v, want ErrDuplicateKey", err)
	}
}

func TestRecordCreateValidation(t *testing.T) {
	svc, _, _ := newRecordService()

	r := testRecord("12345678901")
	r.OrganisationName = ""
	err := svc.Create(r)
	ve, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if ve.Errors[0].Field != "legalName" {
		t.Errorf("error field = %q, want legalName", ve.Errors[0].Field)
	}
}

func TestRecordUpdate(t *testing.T) {
	svc, _, _ := newRecordService()

	r := testRecord("12345678901")
	if err := svc.Create(r); err != nil {
		t.Fatal(err)
	}
	created := r.LastUpdated

	time.Sleep(2 * time.Millisecond)

	input := testRecord("12345678901")
	input.Status = model.StatusCancelled
	input.LegalName = "John Smith"
	updated, err := svc.Update("12345678901", input)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.StatusCancelled || updated.LegalName != "John Smith" {
		t.Errorf("fields not applied: %+v", updated)
	}
	if !updated.LastUpdated.After(created) {
		t.Error("lastUpdated not refreshed on update")
	}

	if _, err := svc.Update("99999999999", input); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update of unknown ABN: got %v, want ErrNotFound", err)
	}
}

func TestRecordUpdateRevalidates(t *testing.T) {
	svc, _, _ := newRecordService()

	if err := svc.Create(testRecord("12345678901")); err != nil {
		t.Fatal(err)
	}
	input := testRecord("12345678901")
	input.ACN = "not-an-acn"
	if _, err := svc.Update("12345678901", input); err == nil {
		t.Fatal("invalid update accepted")
	}
}

func TestRecordUpdateKeepsOmittedEnums(t *testing.T) {
	svc, _, _ := newRecordService()

	r := testRecord("12345678901")
	r.Status = model.StatusCancelled
	r.GSTStatus = model.GSTRegistered
	if err := svc.Create(r); err != nil {
		t.Fatal(err)
	}

	input := &model.AbnRecord{LegalName: "John Smith"}
	updated, err := svc.Update("12345678901", input)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.StatusCancelled {
		t.Errorf("omitted status changed stored value: %q", updated.Status)
	}
	if updated.GSTStatus != model.GSTRegistered {
		t.Errorf("omitted gstStatus changed stored value: %q", updated.GSTStatus)
	}
	if updated.AbnStatusFromDate.IsZero() {
		t.Error("omitted abnStatusFromDate cleared stored value")
	}
	if updated.LegalName != "John Smith" {
		t.Errorf("legalName not applied: %q", updated.LegalName)
	}
}

func TestRecordDeleteCascades(t *testing.T) {
	svc, records, names := newRecordService()

	if err := svc.Create(testRecord("12345678901")); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		err := names.Create(&model.AbnName{
			ABN:  "12345678901",
			Name: fmt.Sprintf("Trading Name %d", i),
			Type: model.TypeTradingName,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.Delete("12345678901"); err != nil {
		t.Fatal(err)
	}

	if _, err := records.GetByABN("12345678901"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("record still present after delete: %v", err)
	}
	left, err := names.ListByABN("12345678901")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d names survived the cascade", len(left))
	}

	if err := svc.Delete("12345678901"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestRecordGetJoinsNames(t *testing.T) {
	svc, _, names := newRecordService()

	if err := svc.Create(testRecord("12345678901")); err != nil {
		t.Fatal(err)
	}
	if err := names.Create(&model.AbnName{ABN: "12345678901", Name: "Example Trading Name", Type: model.TypeTradingName}); err != nil {
		t.Fatal(err)
	}

	record, joined, err := svc.Get("12345678901")
	if err != nil {
		t.Fatal(err)
	}
	if record.ABN != "12345678901" {
		t.Errorf("record abn = %q", record.ABN)
	}
	if len(joined) != 1 {
		t.Fatalf("got %d names, want 1", len(joined))
	}
	if joined[0].AbnRecord == nil || joined[0].AbnRecord.OrganisationName != "Example Pty Ltd" {
		t.Errorf("name not joined with record summary: %+v", joined[0].AbnRecord)
	}

	if _, _, err := svc.Get("99999999999"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown ABN: got %v, want ErrNotFound", err)
	}
}

func TestRecordListPagination(t *testing.T) {
	svc, _, _ := newRecordService()

	for i := 0; i < 15; i++ {
		r := testRecord(fmt.Sprintf("1000000%04d", i))
		if i%3 == 0 {
			r.Status = model.StatusCancelled
		}
		if err := svc.Create(r); err != nil {
			t.Fatal(err)
		}
	}

	q := query.ListQuery{Page: 2, Limit: 10, SortColumn: "abn", Descending: false}
	page, total, err := svc.List(q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
	if len(page) != 5 {
		t.Errorf("page 2 size = %d, want 5", len(page))
	}
	if page[0].ABN != "10000000010" {
		t.Errorf("page 2 starts at %q, want item 11", page[0].ABN)
	}
	if query.Pages(total, q.EffectiveLimit()) != 2 {
		t.Errorf("pages = %d, want 2", query.Pages(total, q.EffectiveLimit()))
	}

	q.Conditions = []query.Condition{{Column: "status", Value: model.StatusCancelled}}
	q.Page = 1
	filtered, filteredTotal, err := svc.List(q)
	if err != nil {
		t.Fatal(err)
	}
	if filteredTotal != 5 || len(filtered) != 5 {
		t.Errorf("cancelled filter: total=%d page=%d, want 5/5", filteredTotal, len(filtered))
	}
	for _, r := range filtered {
		if r.Status != model.StatusCancelled {
			t.Errorf("non-cancelled record in filtered page: %+v", r)
		}
	}
}

func TestRecordStats(t *testing.T) {
	svc, _, _ := newRecordService()

	seeds := []struct {
		abn, status, gst, etc, state string
	}{
		{"10000000001", model.StatusActive, model.GSTRegistered, "PRV", "NSW"},
		{"10000000002", model.StatusActive, model.GSTCancelled, "PRV", "NSW"},
		{"10000000003", model.StatusCancelled, model.GSTCancelled, "IND", "VIC"},
	}
	for _, s := range seeds {
		r := testRecord(s.abn)
		r.Status = s.status
		r.GSTStatus = s.gst
		r.EntityTypeCode = s.etc
		r.State = s.state
		if err := svc.Create(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	ov := stats.Overview
	if ov.TotalRecords != 3 || ov.ActiveRecords != 2 || ov.CancelledRecords != 1 || ov.GSTRegistered != 1 {
		t.Errorf("overview = %+v", ov)
	}
	if len(stats.EntityTypes) != 2 || stats.EntityTypes[0].Key != "PRV" || stats.EntityTypes[0].Count != 2 {
		t.Errorf("entity types = %+v", stats.EntityTypes)
	}
	if len(stats.States) != 2 || stats.States[0].Key != "NSW" {
		t.Errorf("states = %+v", stats.States)
	}
}
