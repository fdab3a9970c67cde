package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
	"github.com/ManishKhulbe/Firmable-backend/prometheus"
)

// RecordStore is the persistent collection of ABN records.
type RecordStore struct {
	db *gorm.DB
}

// NewRecordStore creates a record store on the given database handle.
func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// List returns one page of records matching the query plus the total count
// under the same filter. The two queries are not a transactional snapshot.
func (s *RecordStore) List(q query.ListQuery) ([]model.AbnRecord, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	filtered := applyListQuery(s.db.Model(&model.AbnRecord{}), q)

	var records []model.AbnRecord
	result := filtered.Session(&gorm.Session{}).
		Order(q.Order()).
		Limit(q.EffectiveLimit()).
		Offset(q.Offset()).
		Find(&records)
	if result.Error != nil {
		return nil, 0, translateError(result.Error)
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return records, total, nil
}

// GetByABN returns the record for the given ABN.
func (s *RecordStore) GetByABN(abn string) (*model.AbnRecord, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var record model.AbnRecord
	if err := s.db.Where("abn = ?", abn).First(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// ExistsByABN reports whether a record with the given ABN exists.
func (s *RecordStore) ExistsByABN(abn string) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var count int64
	if err := s.db.Model(&model.AbnRecord{}).Where("abn = ?", abn).Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// SummariesByABN returns the summary projection of every record whose ABN is
// in abns, keyed by ABN. Used for the read-time join onto name entries.
func (s *RecordStore) SummariesByABN(abns []string) (map[string]*model.RecordSummary, error) {
	if len(abns) == 0 {
		return map[string]*model.RecordSummary{}, nil
	}
	defer prometheus.TrackDBOperation("query")(time.Now())

	var records []model.AbnRecord
	if err := s.db.Where("abn IN ?", abns).Find(&records).Error; err != nil {
		return nil, translateError(err)
	}
	summaries := make(map[string]*model.RecordSummary, len(records))
	for i := range records {
		summaries[records[i].ABN] = records[i].Summary()
	}
	return summaries, nil
}

// Create inserts a new record.
func (s *RecordStore) Create(record *model.AbnRecord) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translateError(s.db.Create(record).Error)
}

// Update persists all fields of an existing record.
func (s *RecordStore) Update(record *model.AbnRecord) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return translateError(s.db.Save(record).Error)
}

// DeleteByABN removes the record with the given ABN and reports how many
// rows were deleted.
func (s *RecordStore) DeleteByABN(abn string) (int64, error) {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.Where("abn = ?", abn).Delete(&model.AbnRecord{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// Stats aggregates the record collection: overview counts plus grouped
// counts by entity type code and state, each sorted by count descending.
func (s *RecordStore) Stats() (*model.RecordStats, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	stats := &model.RecordStats{
		EntityTypes: []model.GroupCount{},
		States:      []model.GroupCount{},
	}

	if err := s.db.Model(&model.AbnRecord{}).Count(&stats.Overview.TotalRecords).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnRecord{}).Where("status = ?", model.StatusActive).Count(&stats.Overview.ActiveRecords).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnRecord{}).Where("status = ?", model.StatusCancelled).Count(&stats.Overview.CancelledRecords).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnRecord{}).Where("gst_status = ?", model.GSTRegistered).Count(&stats.Overview.GSTRegistered).Error; err != nil {
		return nil, translateError(err)
	}

	if err := s.db.Model(&model.AbnRecord{}).
		Select("entity_type_code AS key, COUNT(*) AS count").
		Group("entity_type_code").
		Order("count DESC").
		Scan(&stats.EntityTypes).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnRecord{}).
		Select("state AS key, COUNT(*) AS count").
		Group("state").
		Order("count DESC").
		Scan(&stats.States).Error; err != nil {
		return nil, translateError(err)
	}
	return stats, nil
}
