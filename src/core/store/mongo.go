package store

import (
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"
)

// mongoStore adapts one mgo collection to the Store contract.
type mongoStore struct {
	c *mgo.Collection
}

// NewMongoStore wraps an mgo collection.
func NewMongoStore(c *mgo.Collection) Store {
	return &mongoStore{c: c}
}

func (s *mongoStore) Insert(doc interface{}) error {
	err := s.c.Insert(doc)
	if mgo.IsDup(err) {
		return ErrDuplicate
	}
	return errors.Wrapf(err, "store: insert into %s", s.c.Name)
}

func (s *mongoStore) FindByID(id string, result interface{}) error {
	err := s.c.FindId(id).One(result)
	if err == mgo.ErrNotFound {
		return ErrNotFound
	}
	return errors.Wrapf(err, "store: find %q in %s", id, s.c.Name)
}

func (s *mongoStore) Find(filter bson.M, skip, limit int, results interface{}) error {
	q := s.c.Find(filter)
	if skip > 0 {
		q = q.Skip(skip)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return errors.Wrapf(q.All(results), "store: find in %s", s.c.Name)
}

func (s *mongoStore) UpdateByID(id string, patch bson.M) error {
	err := s.c.UpdateId(id, bson.M{"$set": patch})
	if err == mgo.ErrNotFound {
		return ErrNotFound
	}
	return errors.Wrapf(err, "store: update %q in %s", id, s.c.Name)
}

func (s *mongoStore) DeleteByID(id string) error {
	err := s.c.RemoveId(id)
	if err == mgo.ErrNotFound {
		return ErrNotFound
	}
	return errors.Wrapf(err, "store: delete %q from %s", id, s.c.Name)
}

func (s *mongoStore) Count(filter bson.M) (int, error) {
	n, err := s.c.Find(filter).Count()
	return n, errors.Wrapf(err, "store: count in %s", s.c.Name)
}

func (s *mongoStore) DropAll() error {
	err := s.c.DropCollection()
	// Dropping a collection no document was ever written to fails with
	// "ns not found"; an absent collection is already dropped.
	if err != nil && err.Error() == "ns not found" {
		return nil
	}
	return errors.Wrapf(err, "store: drop %s", s.c.Name)
}
