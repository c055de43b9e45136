package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/order"
	"quickgo/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its lines and initial history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, lines, history := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if len(lines) > 0 {
		if err := r.db.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}
	}
	if len(history) > 0 {
		if err := r.db.WithContext(ctx).Create(&history).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order. Lines are immutable after checkout and
// history is append-only, so child rows are inserted with conflicts ignored.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, lines, history := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(lines) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&lines).Error; err != nil {
			return err
		}
	}
	if len(history) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&history).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID. Inside a transaction the row stays locked
// until commit so concurrent transitions on the same order serialize.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.getBy(ctx, "id = ?", id.String())
}

// GetByNumber retrieves an order by its customer-facing order number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("number")
	}

	return r.getBy(ctx, "order_number = ?", number)
}

func (r *GormOrderRepository) getBy(ctx context.Context, query string, arg any) (*order.Order, error) {
	var dto OrderDTO
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&dto, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", arg)
		}
		return nil, err
	}

	var lines []LineDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&lines, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	var history []StatusChangeDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&history, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, lines, history)
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// row locks; writes serialize on the database file instead.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
