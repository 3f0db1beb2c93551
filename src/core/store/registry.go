package store

import (
	"fmt"
	"sync"

	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"

	"quizservice/src/core/models"
)

// Provider builds the store bundle for a tenant the first time it is seen.
type Provider interface {
	Provision(tenantID string) (*Stores, error)
}

// Registry hands out the per-tenant store bundles. For a given tenant id it
// always returns the same *Stores value, so two requests for the same tenant
// can never operate on independently provisioned handle sets. Provisioning
// runs exactly once per tenant per process lifetime; a provisioning failure
// is returned to the caller and nothing is cached.
type Registry struct {
	mu       sync.RWMutex
	cache    map[string]*Stores
	provider Provider
}

func NewRegistry(provider Provider) *Registry {
	return &Registry{
		cache:    make(map[string]*Stores),
		provider: provider,
	}
}

func (r *Registry) GetStores(tenantID string) (*Stores, error) {
	r.mu.RLock()
	stores, ok := r.cache[tenantID]
	r.mu.RUnlock()
	if ok {
		return stores, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock; another goroutine may have provisioned
	// this tenant while we were waiting.
	if stores, ok := r.cache[tenantID]; ok {
		return stores, nil
	}

	stores, err := r.provider.Provision(tenantID)
	if err != nil {
		return nil, errors.Wrapf(err, "registry: provision tenant %q", tenantID)
	}
	r.cache[tenantID] = stores
	return stores, nil
}

// DropTenant tears down every collection owned by the tenant and evicts the
// cached bundle. Used by the client-deletion path only.
func (r *Registry) DropTenant(tenantID string) error {
	stores, err := r.GetStores(tenantID)
	if err != nil {
		return err
	}

	for _, s := range []Store{stores.Quizzes, stores.Questions, stores.Attempts, stores.Users, stores.Responses} {
		if err := s.DropAll(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	delete(r.cache, tenantID)
	r.mu.Unlock()
	return nil
}

// mongoProvider provisions one collection per entity per tenant, named the
// way the stores are partitioned on disk: quizzes_<tenant>, questions_<tenant>
// and so on.
type mongoProvider struct {
	db *mgo.Database
}

func NewMongoProvider(db *mgo.Database) Provider {
	return &mongoProvider{db: db}
}

func (p *mongoProvider) Provision(tenantID string) (*Stores, error) {
	attempts := p.db.C(fmt.Sprintf("attempts_%s", tenantID))

	// A partial unique index on started attempts enforces the one-active-
	// attempt-per-user invariant at the storage layer, closing the
	// check-then-create race across processes.
	err := attempts.EnsureIndex(mgo.Index{
		Name:          "unique_active_attempt",
		Key:           []string{"user"},
		Unique:        true,
		PartialFilter: bson.M{"status": models.AttemptStarted},
	})
	if err != nil {
		return nil, errors.Wrap(err, "ensure active-attempt index")
	}

	if err := attempts.EnsureIndexKey("user", "quiz"); err != nil {
		return nil, errors.Wrap(err, "ensure attempt-count index")
	}

	return &Stores{
		Quizzes:   NewMongoStore(p.db.C(fmt.Sprintf("quizzes_%s", tenantID))),
		Questions: NewMongoStore(p.db.C(fmt.Sprintf("questions_%s", tenantID))),
		Attempts:  NewMongoStore(attempts),
		Users:     NewMongoStore(p.db.C(fmt.Sprintf("users_%s", tenantID))),
		Responses: NewMongoStore(p.db.C(fmt.Sprintf("responses_%s", tenantID))),
	}, nil
}

// memoryProvider provisions in-memory bundles; used by the tests and by the
// debug mode that runs without a MongoDB.
type memoryProvider struct{}

func NewMemoryProvider() Provider {
	return &memoryProvider{}
}

func (p *memoryProvider) Provision(tenantID string) (*Stores, error) {
	return &Stores{
		Quizzes:   NewMemoryStore(),
		Questions: NewMemoryStore(),
		Attempts:  NewMemoryStore(),
		Users:     NewMemoryStore(),
		Responses: NewMemoryStore(),
	}, nil
}
