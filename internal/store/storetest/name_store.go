package storetest

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
)

// NameStore is an in-memory name collection keyed by numeric id.
type NameStore struct {
	mu    sync.Mutex
	seq   uint
	names map[uint]*model.AbnName
}

// NewNameStore creates an empty in-memory name store.
func NewNameStore() *NameStore {
	return &NameStore{names: make(map[uint]*model.AbnName)}
}

func nameColumn(n *model.AbnName, column string) string {
	switch column {
	case "abn":
		return n.ABN
	case "name":
		return n.Name
	case "type":
		return n.Type
	case "created_at":
		return n.CreatedAt.Format("2006-01-02T15:04:05.000000000")
	case "updated_at":
		return n.UpdatedAt.Format("2006-01-02T15:04:05.000000000")
	case "id":
		return strconv.FormatUint(uint64(n.ID), 10)
	default:
		return ""
	}
}

func matchesName(n *model.AbnName, q query.ListQuery) bool {
	for _, cond := range q.Conditions {
		if nameColumn(n, cond.Column) != cond.Value {
			return false
		}
	}
	if q.Search != nil && q.Search.Term != "" {
		term := strings.ToLower(q.Search.Term)
		hit := false
		for _, col := range q.Search.Columns {
			if strings.Contains(strings.ToLower(nameColumn(n, col)), term) {
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
func (s *NameStore) List(q query.ListQuery) ([]model.AbnName, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.AbnName
	for _, n := range s.names {
		if matchesName(n, q) {
			matched = append(matched, *n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a := nameColumn(&matched[i], q.SortColumn)
		b := nameColumn(&matched[j], q.SortColumn)
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
		return []model.AbnName{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// GetByID returns one name entry or apperr.ErrNotFound.
func (s *NameStore) GetByID(id uint) (*model.AbnName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.names[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

// ListByABN returns every entry for an ABN in insertion order.
func (s *NameStore) ListByABN(abn string) ([]model.AbnName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.AbnName
	for _, n := range s.names {
		if n.ABN == abn {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ExistsTriple reports whether another entry holds the same (abn, name,
// type) triple.
func (s *NameStore) ExistsTriple(abn, name, typ string, excludeID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.names {
		if n.ID == excludeID {
			continue
		}
		if n.ABN == abn && n.Name == name && n.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts an entry, enforcing the composite uniqueness like the
// database constraint does.
func (s *NameStore) Create(name *model.AbnName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.names {
		if n.ABN == name.ABN && n.Name == name.Name && n.Type == name.Type {
			return apperr.ErrDuplicateKey
		}
	}
	s.seq++
	name.ID = s.seq
	copied := *name
	s.names[name.ID] = &copied
	return nil
}

// Update replaces the stored entry.
func (s *NameStore) Update(name *model.AbnName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name.ID]; !ok {
		return apperr.ErrNotFound
	}
	copied := *name
	s.names[name.ID] = &copied
	return nil
}

// DeleteByID removes one entry.
func (s *NameStore) DeleteByID(id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[id]; !ok {
		return 0, nil
	}
	delete(s.names, id)
	return 1, nil
}

// DeleteByABN removes every entry for an ABN.
func (s *NameStore) DeleteByABN(abn string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, n := range s.names {
		if n.ABN == abn {
			delete(s.names, id)
			deleted++
		}
	}
	return deleted, nil
}

// Search scores entries by how many search tokens their name contains,
// ordered by score descending with the primary key breaking ties, so
// repeated queries paginate deterministically.
func (s *NameStore) Search(term string, limit, offset int) ([]model.AbnName, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := strings.Fields(strings.ToLower(term))

	type scored struct {
		name  model.AbnName
		score int
	}
	var matched []scored
	for _, n := range s.names {
		text := strings.ToLower(n.Name)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > 0 {
			matched = append(matched, scored{name: *n, score: score})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].score == matched[j].score {
			return matched[i].name.ID < matched[j].name.ID
		}
		return matched[i].score > matched[j].score
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.AbnName{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]model.AbnName, 0, end-offset)
	for _, m := range matched[offset:end] {
		out = append(out, m.name)
	}
	return out, total, nil
}

// Stats aggregates the in-memory collection.
func (s *NameStore) Stats() (*model.NameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &model.NameStats{NameTypes: []model.GroupCount{}}
	abns := map[string]struct{}{}
	types := map[string]int64{}
	for _, n := range s.names {
		stats.Overview.TotalNames++
		abns[n.ABN] = struct{}{}
		types[n.Type]++
	}
	stats.Overview.UniqueAbns = int64(len(abns))
	stats.NameTypes = groupCounts(types)
	return stats, nil
}
