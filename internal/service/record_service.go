// Package service implements the record and name operations: validation
// before any store mutation, identifier uniqueness, write-time referential
// integrity and the record delete cascade.
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
)

// RecordStore is the persistence capability the record service needs.
type RecordStore interface {
	List(q query.ListQuery) ([]model.AbnRecord, int64, error)
	GetByABN(abn string) (*model.AbnRecord, error)
	ExistsByABN(abn string) (bool, error)
	Create(record *model.AbnRecord) error
	Update(record *model.AbnRecord) error
	DeleteByABN(abn string) (int64, error)
	Stats() (*model.RecordStats, error)
}

// NameCascade is the slice of the name store the record service needs for
// reading and cascade-deleting a record's names.
type NameCascade interface {
	ListByABN(abn string) ([]model.AbnName, error)
	DeleteByABN(abn string) (int64, error)
}

// RecordService implements CRUD and stats over ABN records.
type RecordService struct {
	records RecordStore
	names   NameCascade
	log     *zap.Logger
}

// NewRecordService wires a record service to its stores.
func NewRecordService(records RecordStore, names NameCascade, log *zap.Logger) *RecordService {
	return &RecordService{records: records, names: names, log: log}
}

// List returns one page of records and the total count under the same filter.
func (s *RecordService) List(q query.ListQuery) ([]model.AbnRecord, int64, error) {
	return s.records.List(q)
}

// Get returns the record for an ABN together with its name entries, each
// joined with the record summary.
func (s *RecordService) Get(abn string) (*model.AbnRecord, []model.NameWithRecord, error) {
	record, err := s.records.GetByABN(abn)
	if err != nil {
		return nil, nil, err
	}
	names, err := s.names.ListByABN(abn)
	if err != nil {
		return nil, nil, err
	}
	summary := record.Summary()
	joined := make([]model.NameWithRecord, len(names))
	for i, n := range names {
		joined[i] = model.NameWithRecord{AbnName: n, AbnRecord: summary}
	}
	return record, joined, nil
}

// Create validates and inserts a new record. The ABN must not already exist.
func (s *RecordService) Create(record *model.AbnRecord) error {
	now := time.Now()
	record.ApplyDefaults(now)
	record.LastUpdated = now

	if errs := record.Validate(); len(errs) > 0 {
		return apperr.NewValidation(errs)
	}

	exists, err := s.records.ExistsByABN(record.ABN)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("ABN already exists: %w", apperr.ErrDuplicateKey)
	}

	if err := s.records.Create(record); err != nil {
		return err
	}
	s.log.Info("ABN record created", zap.String("abn", record.ABN))
	return nil
}

// Update replaces the mutable fields of an existing record. The ABN itself
// is immutable; LastUpdated is always refreshed.
func (s *RecordService) Update(abn string, input *model.AbnRecord) (*model.AbnRecord, error) {
	existing, err := s.records.GetByABN(abn)
	if err != nil {
		return nil, err
	}

	// Omitted enums and dates keep their stored values. Defaulting an
	// absent status here would reactivate cancelled records.
	if input.Status != "" {
		existing.Status = input.Status
	}
	if input.GSTStatus != "" {
		existing.GSTStatus = input.GSTStatus
	}
	if !input.AbnStatusFromDate.IsZero() {
		existing.AbnStatusFromDate = input.AbnStatusFromDate
	}
	existing.EntityTypeCode = input.EntityTypeCode
	existing.EntityTypeText = input.EntityTypeText
	existing.LegalName = input.LegalName
	existing.OrganisationName = input.OrganisationName
	existing.ACN = input.ACN
	existing.GSTFromDate = input.GSTFromDate
	existing.State = input.State
	existing.Postcode = input.Postcode

	now := time.Now()
	existing.LastUpdated = now

	if errs := existing.Validate(); len(errs) > 0 {
		return nil, apperr.NewValidation(errs)
	}

	if err := s.records.Update(existing); err != nil {
		return nil, err
	}
	s.log.Info("ABN record updated", zap.String("abn", abn))
	return existing, nil
}

// Delete removes a record and cascades to all name entries sharing its ABN.
// The names go first; a failure there aborts before the record row is
// touched so a retry converges.
func (s *RecordService) Delete(abn string) error {
	exists, err := s.records.ExistsByABN(abn)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ErrNotFound
	}

	deleted, err := s.names.DeleteByABN(abn)
	if err != nil {
		s.log.Error("cascade delete of names failed, record retained",
			zap.String("abn", abn),
			zap.Error(err))
		return fmt.Errorf("cascade delete of names for ABN %s: %w", abn, err)
	}

	if _, err := s.records.DeleteByABN(abn); err != nil {
		s.log.Error("record delete failed after names were removed",
			zap.String("abn", abn),
			zap.Int64("names_deleted", deleted),
			zap.Error(err))
		return fmt.Errorf("delete record %s after removing %d names: %w", abn, deleted, err)
	}

	s.log.Info("ABN record deleted with names",
		zap.String("abn", abn),
		zap.Int64("names_deleted", deleted))
	return nil
}

// Stats returns the aggregate counts over the record collection.
func (s *RecordService) Stats() (*model.RecordStats, error) {
	return s.records.Stats()
}
