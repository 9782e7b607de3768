package finder

import (
	"github.com/pkg/errors"

	"tfd/internal/domain"
)

// ErrRegistryMalformed is returned when a registered find method cannot be called
var ErrRegistryMalformed = errors.New("finder registry malformed")

// FindFunc resolves a user token. A nil or empty result means the token is not recognised.
type FindFunc func(token string) ([]*domain.TestInfo, error)

// Method is a find method of finder type F, usually a method expression such as
// (*ExampleFinder).FindMethodFromExampleFinder.
type Method[F any] struct {
	Name string
	Find func(f F, token string) ([]*domain.TestInfo, error)
}

// Registry is the immutable, ordered list of find methods declared for finder type F
type Registry[F any] struct {
	methods []Method[F]
}

// NewRegistry builds a registry from methods in declaration order.
// An empty registry is valid.
func NewRegistry[F any](methods ...Method[F]) (*Registry[F], error) {
	r := &Registry[F]{methods: make([]Method[F], 0, len(methods))}
	for i, m := range methods {
		if m.Find == nil {
			return nil, errors.Wrapf(ErrRegistryMalformed, "method %d (%q) is not callable", i, m.Name)
		}
		if m.Name == "" {
			return nil, errors.Wrapf(ErrRegistryMalformed, "method %d has no name", i)
		}
		r.methods = append(r.methods, m)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics; meant for package-level registries.
func MustRegistry[F any](methods ...Method[F]) *Registry[F] {
	r, err := NewRegistry(methods...)
	if err != nil {
		panic(err)
	}
	return r
}

// Inherit builds a registry for F that starts with every method of base,
// reached through up, followed by methods.
func Inherit[F, B any](base *Registry[B], up func(F) B, methods ...Method[F]) (*Registry[F], error) {
	inherited := make([]Method[F], 0, len(base.methods)+len(methods))
	for _, bm := range base.methods {
		bm := bm
		inherited = append(inherited, Method[F]{
			Name: bm.Name,
			Find: func(f F, token string) ([]*domain.TestInfo, error) {
				return bm.Find(up(f), token)
			},
		})
	}
	return NewRegistry(append(inherited, methods...)...)
}

// AllFindMethods returns a copy of the registered methods in declaration order
func (r *Registry[F]) AllFindMethods() []Method[F] {
	return append([]Method[F](nil), r.methods...)
}

// Bind pairs instance with every registered method
func (r *Registry[F]) Bind(instance F, finderName string) []Record {
	records := make([]Record, 0, len(r.methods))
	for _, m := range r.methods {
		m := m
		records = append(records, Record{
			Finder:     instance,
			FinderName: finderName,
			MethodName: m.Name,
			Find: func(token string) ([]*domain.TestInfo, error) {
				return m.Find(instance, token)
			},
		})
	}
	return records
}

// Record is a find method bound to a finder instance
type Record struct {
	Finder     any
	Find       FindFunc
	FinderName string
	MethodName string
}

// Class produces the bound records of one finder type
type Class interface {
	Name() string
	Instantiate() ([]Record, error)
}

type class[F any] struct {
	name     string
	newFn    func() (F, error)
	registry *Registry[F]
}

// NewClass describes a finder type by its constructor and registry
func NewClass[F any](name string, newFn func() (F, error), registry *Registry[F]) Class {
	return &class[F]{name: name, newFn: newFn, registry: registry}
}

func (c *class[F]) Name() string {
	return c.name
}

// Instantiate creates one finder instance and binds it to the registry
func (c *class[F]) Instantiate() ([]Record, error) {
	if c.newFn == nil || c.registry == nil {
		return nil, errors.Wrapf(ErrRegistryMalformed, "finder class %s", c.name)
	}
	instance, err := c.newFn()
	if err != nil {
		return nil, errors.Wrapf(err, "instantiate finder %s", c.name)
	}
	return c.registry.Bind(instance, c.name), nil
}
