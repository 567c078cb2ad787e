package document

import (
	"context"
	"slices"
	"strings"

	"github.com/nexusai/billing/internal/cache"
	domainPlan "github.com/nexusai/billing/internal/domain/plan"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/store"
)

type planRepository struct {
	client *store.Client
	log    *logger.Logger
	cache  cache.Cache
}

func NewPlanRepository(client *store.Client, log *logger.Logger, cache cache.Cache) domainPlan.Repository {
	return &planRepository{
		client: client,
		log:    log,
		cache:  cache,
	}
}

func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	if p := r.GetCache(ctx, id); p != nil {
		return p, nil
	}

	data, err := r.client.Get(ctx, store.CollectionPlans, id)
	if err != nil {
		return nil, err
	}

	p, err := decode[domainPlan.Plan](store.CollectionPlans, data)
	if err != nil {
		return nil, err
	}

	r.SetCache(ctx, p)
	return p, nil
}

// List returns the catalog ordered by price, then name
func (r *planRepository) List(ctx context.Context) ([]*domainPlan.Plan, error) {
	docs, err := r.client.List(ctx, store.CollectionPlans)
	if err != nil {
		return nil, err
	}

	plans, err := decodeAll[domainPlan.Plan](store.CollectionPlans, docs)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(plans, func(a, b *domainPlan.Plan) int {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return plans, nil
}

func (r *planRepository) Upsert(ctx context.Context, p *domainPlan.Plan) error {
	r.log.Debugw("upserting plan", "plan_id", p.ID, "price", p.Price.String())

	data, err := encode(store.CollectionPlans, p.ID, p)
	if err != nil {
		return err
	}

	if err := r.client.Put(ctx, store.CollectionPlans, p.ID, data); err != nil {
		return err
	}

	r.DeleteCache(ctx, p.ID)
	return nil
}

func (r *planRepository) ReplaceAll(ctx context.Context, plans []*domainPlan.Plan) error {
	docs := make(map[string][]byte, len(plans))
	for _, p := range plans {
		data, err := encode(store.CollectionPlans, p.ID, p)
		if err != nil {
			return err
		}
		docs[p.ID] = data
	}

	if err := r.client.ReplaceAll(ctx, store.CollectionPlans, docs); err != nil {
		return err
	}

	r.cache.DeleteByPrefix(ctx, cache.PrefixPlan)
	r.log.Infow("replaced plan catalog", "plans", len(plans))
	return nil
}

func (r *planRepository) SetCache(ctx context.Context, p *domainPlan.Plan) {
	copied := *p
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixPlan, p.ID), &copied, 0)
}

func (r *planRepository) GetCache(ctx context.Context, id string) *domainPlan.Plan {
	if value, found := r.cache.Get(ctx, cache.GenerateKey(cache.PrefixPlan, id)); found {
		copied := *value.(*domainPlan.Plan)
		return &copied
	}
	return nil
}

func (r *planRepository) DeleteCache(ctx context.Context, id string) {
	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixPlan, id))
}
