// Package memstore is the in-memory document store. It backs the unit tests
// and the STORE=memory dev mode; behavior (id ordering, cursor format,
// filter semantics) matches gormstore.
package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"

	"transit_issues/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	kinds  map[string]map[int64]json.RawMessage
}

func New() *Store {
	return &Store{
		nextID: 1,
		kinds:  make(map[string]map[int64]json.RawMessage),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, kind string, doc any) (int64, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	if s.kinds[kind] == nil {
		s.kinds[kind] = make(map[int64]json.RawMessage)
	}
	s.kinds[kind][id] = raw
	return id, nil
}

func (s *Store) Get(ctx context.Context, kind string, id int64, dst any) error {
	s.mu.Lock()
	raw, ok := s.kinds[kind][id]
	s.mu.Unlock()
	if !ok {
		return storage.ErrNoEntity
	}
	return json.Unmarshal(raw, dst)
}

func (s *Store) Save(ctx context.Context, kind string, id int64, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kinds[kind] == nil {
		s.kinds[kind] = make(map[int64]json.RawMessage)
	}
	s.kinds[kind][id] = raw
	return nil
}

func (s *Store) Delete(ctx context.Context, kind string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kinds[kind], id)
	return nil
}

func (s *Store) Query(ctx context.Context, kind string, filter *storage.Filter, limit int, cursor string) ([]storage.Entity, storage.Page, error) {
	offset, err := storage.DecodeCursor(cursor)
	if err != nil {
		return nil, storage.Page{}, err
	}

	s.mu.Lock()
	ids := make([]int64, 0, len(s.kinds[kind]))
	for id := range s.kinds[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := make([]storage.Entity, 0, len(ids))
	for _, id := range ids {
		raw := s.kinds[kind][id]
		if filter != nil && !fieldEquals(raw, filter.Field, filter.Value) {
			continue
		}
		matched = append(matched, storage.Entity{ID: id, Doc: raw})
	}
	s.mu.Unlock()

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]

	page := storage.Page{}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
		page.More = true
		page.EndCursor = storage.EncodeCursor(offset + limit)
	}
	return matched, page, nil
}

func (s *Store) Count(ctx context.Context, kind string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.kinds[kind])), nil
}

// fieldEquals compares one document field against want using JSON
// normalization, so int64 filter values match the numbers stored in docs.
func fieldEquals(raw json.RawMessage, field string, want any) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	got, ok := doc[field]
	if !ok {
		return false
	}
	wantRaw, err := json.Marshal(want)
	if err != nil {
		return false
	}
	return bytes.Equal(bytes.TrimSpace(got), wantRaw)
}
