package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medsupply-service/internal/models"
)

const (
	CatalogCacheTTL     = 10 * time.Minute // catalog changes only on import
	DistributorCacheTTL = 30 * time.Minute
)

// DistributorRepositoryInterface is the persistence contract for the distributor catalog
type DistributorRepositoryInterface interface {
	ListAll(ctx context.Context, tenantID string) ([]models.Distributor, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]models.Distributor, int64, error)
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Distributor, error)
	Create(ctx context.Context, distributor *models.Distributor) error
	Upsert(ctx context.Context, distributor *models.Distributor) error
}

// DistributorRepository reads the catalog through a two-level cache when
// Redis is configured
type DistributorRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewDistributorRepository(db *gorm.DB, redisClient *redis.Client) *DistributorRepository {
	repo := &DistributorRepository{
		db:    db,
		redis: redisClient,
	}

	if redisClient != nil {
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: CatalogCacheTTL,
			KeyPrefix:  "tesseract:medsupply:",
		})
	}

	return repo
}

func catalogCacheKey(tenantID string) string {
	return fmt.Sprintf("distributors:all:%s", tenantID)
}

func distributorCacheKey(tenantID string, id uuid.UUID) string {
	return fmt.Sprintf("distributor:%s:%s", tenantID, id.String())
}

// ListAll returns the whole catalog of a tenant in code order
func (r *DistributorRepository) ListAll(ctx context.Context, tenantID string) ([]models.Distributor, error) {
	load := func() ([]models.Distributor, error) {
		var distributors []models.Distributor
		err := r.db.WithContext(ctx).
			Where("tenant_id = ?", tenantID).
			Order("code ASC").
			Find(&distributors).Error
		return distributors, err
	}

	if r.cache == nil {
		return load()
	}

	var distributors []models.Distributor
	err := r.cache.GetOrSetJSON(ctx, catalogCacheKey(tenantID), &distributors, CatalogCacheTTL, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *DistributorRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]models.Distributor, int64, error) {
	var distributors []models.Distributor
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Distributor{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("code ASC").Limit(limit).Offset(offset).Find(&distributors).Error
	return distributors, total, err
}

func (r *DistributorRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Distributor, error) {
	load := func() (*models.Distributor, error) {
		var d models.Distributor
		if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&d).Error; err != nil {
			return nil, translate(err)
		}
		return &d, nil
	}

	if r.cache == nil {
		return load()
	}

	var distributor models.Distributor
	err := r.cache.GetOrSetJSON(ctx, distributorCacheKey(tenantID, id), &distributor, DistributorCacheTTL, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}
	return &distributor, nil
}

func (r *DistributorRepository) Create(ctx context.Context, distributor *models.Distributor) error {
	if err := r.db.WithContext(ctx).Create(distributor).Error; err != nil {
		return translate(err)
	}
	r.invalidate(ctx, distributor)
	return nil
}

// Upsert inserts or replaces a distributor keyed by tenant and code
func (r *DistributorRepository) Upsert(ctx context.Context, distributor *models.Distributor) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "location", "latitude", "longitude", "distance",
			"estimated_delivery", "available", "rating", "specialization",
			"inventory", "pricing", "advantages", "updated_at",
		}),
	}).Create(distributor).Error
	if err != nil {
		return translate(err)
	}
	r.invalidate(ctx, distributor)
	return nil
}

func (r *DistributorRepository) invalidate(ctx context.Context, distributor *models.Distributor) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, catalogCacheKey(distributor.TenantID))
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("distributor:%s:*", distributor.TenantID))
}

// RedisHealth pings the cache backend
func (r *DistributorRepository) RedisHealth(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return r.redis.Ping(ctx).Err()
}

// CacheStats returns cache statistics, nil without Redis
func (r *DistributorRepository) CacheStats() *cache.CacheStats {
	if r.cache == nil {
		return nil
	}
	stats := r.cache.Stats()
	return &stats
}
