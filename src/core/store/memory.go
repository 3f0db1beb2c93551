package store

import (
	"reflect"
	"sync"

	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"
)

// memoryStore is a mutex-guarded in-memory Store. Documents round-trip
// through bson on the way in and out, so callers see the same shapes (string
// ids, []interface{} arrays, mixed answer payloads) they would get back from
// MongoDB. Insertion order is preserved for Find, which is what gives the
// pagination tests deterministic results.
type memoryStore struct {
	mu    sync.RWMutex
	docs  map[string]bson.M
	order []string
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string]bson.M)}
}

func toDocument(doc interface{}) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "store: marshal document")
	}
	out := bson.M{}
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "store: unmarshal document")
	}
	return out, nil
}

func fromDocument(doc bson.M, result interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "store: marshal document")
	}
	return errors.Wrap(bson.Unmarshal(data, result), "store: unmarshal document")
}

func (s *memoryStore) Insert(doc interface{}) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	id, ok := m["_id"].(string)
	if !ok || id == "" {
		return errors.New("store: document has no string _id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; exists {
		return ErrDuplicate
	}
	s.docs[id] = m
	s.order = append(s.order, id)
	return nil
}

func (s *memoryStore) FindByID(id string, result interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	return fromDocument(doc, result)
}

func (s *memoryStore) Find(filter bson.M, skip, limit int, results interface{}) error {
	filter, err := toDocument(filter)
	if err != nil {
		return err
	}

	// The read lock is held through decoding because UpdateByID patches
	// documents in place.
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []bson.M
	for _, id := range s.order {
		if doc, ok := s.docs[id]; ok && matches(doc, filter) {
			matched = append(matched, doc)
		}
	}

	if skip > 0 {
		if skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[skip:]
		}
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	// results must be a pointer to a slice; decode each match into a fresh
	// element of the slice's type.
	slice := reflect.ValueOf(results).Elem()
	elemType := slice.Type().Elem()
	slice.Set(reflect.MakeSlice(slice.Type(), 0, len(matched)))
	for _, doc := range matched {
		elem := reflect.New(elemType)
		if err := fromDocument(doc, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (s *memoryStore) UpdateByID(id string, patch bson.M) error {
	patch, err := toDocument(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	return nil
}

func (s *memoryStore) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) Count(filter bson.M) (int, error) {
	filter, err := toDocument(filter)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, doc := range s.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) DropAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]bson.M)
	s.order = nil
	return nil
}

// matches implements top-level equality filtering, which is the only filter
// shape the engine uses.
func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}
