package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vnkhanh/grade-explorer/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog owns the loaded datasets. A dataset is written once per (re)load
// and only read afterwards; reloads swap the whole value.
type Catalog struct {
	mu       sync.RWMutex
	datasets map[string]*models.Dataset
	order    []string

	loader *Loader
	log    *zap.Logger
}

func NewCatalog(loader *Loader, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		datasets: make(map[string]*models.Dataset),
		loader:   loader,
		log:      log,
	}
}

// LoadAll loads every spec concurrently. A failing dataset is registered
// empty; the failure has already been logged by the loader.
func (c *Catalog) LoadAll(ctx context.Context, specs []models.DatasetSpec) {
	results := make([]*models.Dataset, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, spec := range specs {
		g.Go(func() error {
			ds, _ := c.loader.Load(ctx, spec)
			results[i] = ds
			return nil
		})
	}
	_ = g.Wait()

	for _, ds := range results {
		c.Put(ds)
	}
}

// Put registers ds, replacing any dataset with the same name.
func (c *Catalog) Put(ds *models.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := ds.Spec.Name
	if _, ok := c.datasets[name]; !ok {
		c.order = append(c.order, name)
	}
	c.datasets[name] = ds
}

func (c *Catalog) Get(name string) (*models.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return ds, nil
}

// List returns the datasets in registration order.
func (c *Catalog) List() []models.DatasetInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.DatasetInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.datasets[name].Info())
	}
	return out
}

// Reload re-reads one dataset from its source. The previous collection stays
// in place when the reload fails.
func (c *Catalog) Reload(ctx context.Context, name string) (*models.Dataset, error) {
	current, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	if c.loader == nil {
		return nil, fmt.Errorf("reload %s: no loader configured", name)
	}

	ds, err := c.loader.Load(ctx, current.Spec)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", name, err)
	}
	c.Put(ds)
	c.log.Info("dataset reloaded", zap.String("dataset", name), zap.Int("subjects", len(ds.Subjects)))
	return ds, nil
}

// Query runs the dataset's engine over its collection.
func (c *Catalog) Query(name string, p QueryParams) ([]models.Subject, error) {
	ds, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	engine := NewQueryEngine(EngineConfigFor(ds.Spec.Features))
	return engine.Run(ds.Subjects, p), nil
}

// Subject finds a record by its exact code.
func (c *Catalog) Subject(name, code string) (models.Subject, error) {
	ds, err := c.Get(name)
	if err != nil {
		return models.Subject{}, err
	}
	for _, s := range ds.Subjects {
		if s.Code == code {
			return s, nil
		}
	}
	return models.Subject{}, fmt.Errorf("%w: %s/%s", ErrSubjectNotFound, name, code)
}
