package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
	"github.com/ManishKhulbe/Firmable-backend/prometheus"
)

// textSearchVector is the expression behind the full-text index on name text.
const textSearchVector = "to_tsvector('english', name)"

// NameStore is the persistent collection of ABN name entries.
type NameStore struct {
	db *gorm.DB
}

// NewNameStore creates a name store on the given database handle.
func NewNameStore(db *gorm.DB) *NameStore {
	return &NameStore{db: db}
}

// List returns one page of name entries matching the query plus the total
// count under the same filter.
func (s *NameStore) List(q query.ListQuery) ([]model.AbnName, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	filtered := applyListQuery(s.db.Model(&model.AbnName{}), q)

	var names []model.AbnName
	result := filtered.Session(&gorm.Session{}).
		Order(q.Order()).
		Limit(q.EffectiveLimit()).
		Offset(q.Offset()).
		Find(&names)
	if result.Error != nil {
		return nil, 0, translateError(result.Error)
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return names, total, nil
}

// GetByID returns a single name entry.
func (s *NameStore) GetByID(id uint) (*model.AbnName, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var name model.AbnName
	if err := s.db.First(&name, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &name, nil
}

// ListByABN returns every name entry referencing the given ABN.
func (s *NameStore) ListByABN(abn string) ([]model.AbnName, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var names []model.AbnName
	if err := s.db.Where("abn = ?", abn).Order("id asc").Find(&names).Error; err != nil {
		return nil, translateError(err)
	}
	return names, nil
}

// ExistsTriple reports whether a name entry with the same (abn, name, type)
// triple already exists, ignoring the entry with excludeID.
func (s *NameStore) ExistsTriple(abn, name, typ string, excludeID uint) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	tx := s.db.Model(&model.AbnName{}).
		Where("abn = ? AND name = ? AND type = ?", abn, name, typ)
	if excludeID != 0 {
		tx = tx.Where("id != ?", excludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Create inserts a new name entry.
func (s *NameStore) Create(name *model.AbnName) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return translateError(s.db.Create(name).Error)
}

// Update persists all fields of an existing name entry.
func (s *NameStore) Update(name *model.AbnName) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return translateError(s.db.Save(name).Error)
}

// DeleteByID removes one name entry and reports how many rows were deleted.
func (s *NameStore) DeleteByID(id uint) (int64, error) {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.Delete(&model.AbnName{}, id)
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByABN removes every name entry referencing the given ABN. Used by
// the record delete cascade.
func (s *NameStore) DeleteByABN(abn string) (int64, error) {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.Where("abn = ?", abn).Delete(&model.AbnName{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// Search runs a relevance-ranked full-text search over name text. Rank ties
// break on the primary key so identical queries paginate deterministically.
func (s *NameStore) Search(term string, limit, offset int) ([]model.AbnName, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	match := textSearchVector + " @@ plainto_tsquery('english', ?)"

	var names []model.AbnName
	result := s.db.Model(&model.AbnName{}).
		Select("*, ts_rank("+textSearchVector+", plainto_tsquery('english', ?)) AS rank", term).
		Where(match, term).
		Order("rank DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&names)
	if result.Error != nil {
		return nil, 0, translateError(result.Error)
	}

	var total int64
	if err := s.db.Model(&model.AbnName{}).Where(match, term).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return names, total, nil
}

// Stats aggregates the name collection: totals plus grouped counts by type,
// sorted by count descending.
func (s *NameStore) Stats() (*model.NameStats, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	stats := &model.NameStats{NameTypes: []model.GroupCount{}}

	if err := s.db.Model(&model.AbnName{}).Count(&stats.Overview.TotalNames).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnName{}).Distinct("abn").Count(&stats.Overview.UniqueAbns).Error; err != nil {
		return nil, translateError(err)
	}
	if err := s.db.Model(&model.AbnName{}).
		Select("type AS key, COUNT(*) AS count").
		Group("type").
		Order("count DESC").
		Scan(&stats.NameTypes).Error; err != nil {
		return nil, translateError(err)
	}
	return stats, nil
}
