// Package storetest provides in-memory implementations of the record and
// name stores for service and handler tests. They mirror the filtering,
// sorting and pagination semantics of the SQL stores over plain slices.
package storetest

import (
	"sort"
	"strings"
	"sync"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
)

// RecordStore is an in-memory record collection keyed by ABN.
type RecordStore struct {
	mu      sync.Mutex
	seq     uint
	records map[string]*model.AbnRecord
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]*model.AbnRecord)}
}

func recordColumn(r *model.AbnRecord, column string) string {
	switch column {
	case "abn":
		return r.ABN
	case "status":
		return r.Status
	case "entity_type_code":
		return r.EntityTypeCode
	case "entity_type_text":
		return r.EntityTypeText
	case "legal_name":
		return r.LegalName
	case "organisation_name":
		return r.OrganisationName
	case "acn":
		return r.ACN
	case "state":
		return r.State
	case "last_updated":
		return r.LastUpdated.Format("2006-01-02T15:04:05.000000000")
	case "created_at":
		return r.CreatedAt.Format("2006-01-02T15:04:05.000000000")
	default:
		return ""
	}
}

func matchesRecord(r *model.AbnRecord, q query.ListQuery) bool {
	for _, cond := range q.Conditions {
		if recordColumn(r, cond.Column) != cond.Value {
			return false
		}
	}
	if q.Search != nil && q.Search.Term != "" {
		term := strings.ToLower(q.Search.Term)
		hit := false
		for _, col := range q.Search.Columns {
			if strings.Contains(strings.ToLower(recordColumn(r, col)), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// List implements the filtered, sorted, paginated listing.
func (s *RecordStore) List(q query.ListQuery) ([]model.AbnRecord, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.AbnRecord
	for _, r := range s.records {
		if matchesRecord(r, q) {
			matched = append(matched, *r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a := recordColumn(&matched[i], q.SortColumn)
		b := recordColumn(&matched[j], q.SortColumn)
		if a == b {
			return matched[i].ID < matched[j].ID
		}
		if q.Descending {
			return a > b
		}
		return a < b
	})

	total := int64(len(matched))
	offset, limit := q.Offset(), q.EffectiveLimit()
	if offset >= len(matched) {
		return []model.AbnRecord{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// GetByABN returns the record for an ABN or apperr.ErrNotFound.
func (s *RecordStore) GetByABN(abn string) (*model.AbnRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[abn]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

// ExistsByABN reports whether a record with the ABN exists.
func (s *RecordStore) ExistsByABN(abn string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[abn]
	return ok, nil
}

// SummariesByABN returns summaries for the requested ABNs.
func (s *RecordStore) SummariesByABN(abns []string) (map[string]*model.RecordSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make(map[string]*model.RecordSummary, len(abns))
	for _, abn := range abns {
		if r, ok := s.records[abn]; ok {
			summaries[abn] = r.Summary()
		}
	}
	return summaries, nil
}

// Create inserts a record, enforcing ABN uniqueness like the database
// constraint does.
func (s *RecordStore) Create(record *model.AbnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ABN]; ok {
		return apperr.ErrDuplicateKey
	}
	s.seq++
	record.ID = s.seq
	copied := *record
	s.records[record.ABN] = &copied
	return nil
}

// Update replaces the stored record.
func (s *RecordStore) Update(record *model.AbnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ABN]; !ok {
		return apperr.ErrNotFound
	}
	copied := *record
	s.records[record.ABN] = &copied
	return nil
}

// DeleteByABN removes the record with the given ABN.
func (s *RecordStore) DeleteByABN(abn string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[abn]; !ok {
		return 0, nil
	}
	delete(s.records, abn)
	return 1, nil
}

// Stats aggregates the in-memory collection.
func (s *RecordStore) Stats() (*model.RecordStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.RecordStats{
		EntityTypes: []model.GroupCount{},
		States:      []model.GroupCount{},
	}
	entityTypes := map[string]int64{}
	states := map[string]int64{}
	for _, r := range s.records {
		stats.Overview.TotalRecords++
		switch r.Status {
		case model.StatusActive:
			stats.Overview.ActiveRecords++
		case model.StatusCancelled:
			stats.Overview.CancelledRecords++
		}
		if r.GSTStatus == model.GSTRegistered {
			stats.Overview.GSTRegistered++
		}
		entityTypes[r.EntityTypeCode]++
		states[r.State]++
	}
	stats.EntityTypes = groupCounts(entityTypes)
	stats.States = groupCounts(states)
	return stats, nil
}

// groupCounts converts a bucket map to a slice sorted by count descending,
// key ascending on ties.
func groupCounts(buckets map[string]int64) []model.GroupCount {
	out := make([]model.GroupCount, 0, len(buckets))
	for k, v := range buckets {
		out = append(out, model.GroupCount{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	return out
}
