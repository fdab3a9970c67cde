package service

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
)

// NameStore is the persistence capability the name service needs.
type NameStore interface {
	List(q query.ListQuery) ([]model.AbnName, int64, error)
	GetByID(id uint) (*model.AbnName, error)
	ListByABN(abn string) ([]model.AbnName, error)
	ExistsTriple(abn, name, typ string, excludeID uint) (bool, error)
	Create(name *model.AbnName) error
	Update(name *model.AbnName) error
	DeleteByID(id uint) (int64, error)
	Search(term string, limit, offset int) ([]model.AbnName, int64, error)
	Stats() (*model.NameStats, error)
}

// RecordLookup is the record store capability the name service holds for
// write-time referential checks and the read-time join.
type RecordLookup interface {
	ExistsByABN(abn string) (bool, error)
	SummariesByABN(abns []string) (map[string]*model.RecordSummary, error)
}

// NameService implements CRUD, search and stats over ABN names.
type NameService struct {
	names   NameStore
	records RecordLookup
	log     *zap.Logger
}

// NewNameService wires a name service to the name store and the record
// lookup it validates against.
func NewNameService(names NameStore, records RecordLookup, log *zap.Logger) *NameService {
	return &NameService{names: names, records: records, log: log}
}

// joinRecords merges record summaries onto a set of name entries. Pure over
// its inputs; entries whose ABN has no record keep a nil summary.
func joinRecords(names []model.AbnName, summaries map[string]*model.RecordSummary) []model.NameWithRecord {
	joined := make([]model.NameWithRecord, len(names))
	for i, n := range names {
		joined[i] = model.NameWithRecord{AbnName: n, AbnRecord: summaries[n.ABN]}
	}
	return joined
}

// lookupSummaries fetches the record summaries for the distinct ABNs in a
// page of names.
func (s *NameService) lookupSummaries(names []model.AbnName) (map[string]*model.RecordSummary, error) {
	seen := make(map[string]struct{}, len(names))
	abns := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n.ABN]; ok {
			continue
		}
		seen[n.ABN] = struct{}{}
		abns = append(abns, n.ABN)
	}
	return s.records.SummariesByABN(abns)
}

// List returns one page of joined name entries and the total count under the
// same filter.
func (s *NameService) List(q query.ListQuery) ([]model.NameWithRecord, int64, error) {
	names, total, err := s.names.List(q)
	if err != nil {
		return nil, 0, err
	}
	summaries, err := s.lookupSummaries(names)
	if err != nil {
		return nil, 0, err
	}
	return joinRecords(names, summaries), total, nil
}

// Get returns a single joined name entry.
func (s *NameService) Get(id uint) (*model.NameWithRecord, error) {
	name, err := s.names.GetByID(id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.records.SummariesByABN([]string{name.ABN})
	if err != nil {
		return nil, err
	}
	return &model.NameWithRecord{AbnName: *name, AbnRecord: summaries[name.ABN]}, nil
}

// ListByABN returns every joined name entry for one ABN. An ABN with no
// entries reports not found, whether or not the record itself exists.
func (s *NameService) ListByABN(abn string) ([]model.NameWithRecord, error) {
	names, err := s.names.ListByABN(abn)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, apperr.ErrNotFound
	}
	summaries, err := s.lookupSummaries(names)
	if err != nil {
		return nil, err
	}
	return joinRecords(names, summaries), nil
}

// Create validates a new name entry, checks that its ABN exists in the
// record store before persisting, and rejects duplicate (abn, name, type)
// triples.
func (s *NameService) Create(name *model.AbnName) (*model.NameWithRecord, error) {
	name.ApplyDefaults()
	if errs := name.Validate(); len(errs) > 0 {
		return nil, apperr.NewValidation(errs)
	}

	exists, err := s.records.ExistsByABN(name.ABN)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrReferentialIntegrity
	}

	dup, err := s.names.ExistsTriple(name.ABN, name.Name, name.Type, 0)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("this name already exists for the given ABN and type: %w", apperr.ErrDuplicateKey)
	}

	if err := s.names.Create(name); err != nil {
		return nil, err
	}
	s.log.Info("ABN name created",
		zap.String("abn", name.ABN),
		zap.String("type", name.Type))

	summaries, err := s.records.SummariesByABN([]string{name.ABN})
	if err != nil {
		return nil, err
	}
	return &model.NameWithRecord{AbnName: *name, AbnRecord: summaries[name.ABN]}, nil
}

// Update replaces the fields of an existing name entry. The referential
// check reruns only when the update moves the entry to a different ABN.
func (s *NameService) Update(id uint, input *model.AbnName) (*model.NameWithRecord, error) {
	existing, err := s.names.GetByID(id)
	if err != nil {
		return nil, err
	}

	abnChanged := input.ABN != "" && input.ABN != existing.ABN
	if input.ABN != "" {
		existing.ABN = input.ABN
	}
	existing.Name = input.Name
	existing.Type = input.Type

	existing.ApplyDefaults()
	if errs := existing.Validate(); len(errs) > 0 {
		return nil, apperr.NewValidation(errs)
	}

	if abnChanged {
		recordExists, err := s.records.ExistsByABN(existing.ABN)
		if err != nil {
			return nil, err
		}
		if !recordExists {
			return nil, apperr.ErrReferentialIntegrity
		}
	}

	dup, err := s.names.ExistsTriple(existing.ABN, existing.Name, existing.Type, id)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("this name already exists for the given ABN and type: %w", apperr.ErrDuplicateKey)
	}

	if err := s.names.Update(existing); err != nil {
		return nil, err
	}
	s.log.Info("ABN name updated", zap.Uint("id", id))

	summaries, err := s.records.SummariesByABN([]string{existing.ABN})
	if err != nil {
		return nil, err
	}
	return &model.NameWithRecord{AbnName: *existing, AbnRecord: summaries[existing.ABN]}, nil
}

// Delete removes one name entry.
func (s *NameService) Delete(id uint) error {
	deleted, err := s.names.DeleteByID(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.ErrNotFound
	}
	s.log.Info("ABN name deleted", zap.Uint("id", id))
	return nil
}

// Search runs the relevance-ranked free-text search over name text and joins
// the results. Distinct from the substring filter in List.
func (s *NameService) Search(term string, page, limit int) ([]model.NameWithRecord, int64, error) {
	if l := utf8.RuneCountInString(term); l < 1 || l > 100 {
		return nil, 0, apperr.Validationf("term", "Search term must be between 1 and 100 characters")
	}
	if page < 1 {
		page = query.DefaultPage
	}
	if limit < 1 || limit > query.MaxLimit {
		limit = query.DefaultLimit
	}

	names, total, err := s.names.Search(term, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	summaries, err := s.lookupSummaries(names)
	if err != nil {
		return nil, 0, err
	}
	return joinRecords(names, summaries), total, nil
}

// Stats returns the aggregate counts over the name collection.
func (s *NameService) Stats() (*model.NameStats, error) {
	return s.names.Stats()
}
