package paymentrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickgo/internal/core/domain/model/kernel"
	"quickgo/internal/core/domain/model/payment"
	"quickgo/internal/pkg/errs"
)

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPaymentRepository creates a new GORM payment repository.
func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new payment with its initial history.
func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, refunds, history := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if len(refunds) > 0 {
		if err := r.db.WithContext(ctx).Create(&refunds).Error; err != nil {
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

// Update saves an existing payment. Refund records and history are
// append-only, so child rows are inserted with conflicts ignored.
func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, refunds, history := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(refunds) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&refunds).Error; err != nil {
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

// Get retrieves a payment by ID. Inside a transaction the row stays locked
// until commit.
func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.getBy(ctx, "id = ?", id.String())
}

// GetByOrderID retrieves the payment created for the given order.
func (r *GormPaymentRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return r.getBy(ctx, "order_id = ?", orderID.String())
}

// GetAllStalePending retrieves payments still pending that were created
// before the cutoff. Rows are locked so the sweep and a racing completion
// serialize.
func (r *GormPaymentRepository) GetAllStalePending(ctx context.Context, cutoff time.Time) ([]*payment.Payment, error) {
	var dtos []PaymentDTO
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Find(&dtos, "status = ? AND created_at < ?", payment.StatusPending.String(), cutoff).Error; err != nil {
		return nil, err
	}

	payments := make([]*payment.Payment, 0, len(dtos))
	for _, dto := range dtos {
		p, err := r.load(ctx, dto)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, nil
}

func (r *GormPaymentRepository) getBy(ctx context.Context, query string, arg any) (*payment.Payment, error) {
	var dto PaymentDTO
	if err := lockForUpdate(r.db.WithContext(ctx)).First(&dto, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", arg)
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

func (r *GormPaymentRepository) load(ctx context.Context, dto PaymentDTO) (*payment.Payment, error) {
	var refunds []RefundDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&refunds, "payment_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	var history []StatusChangeDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&history, "payment_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, refunds, history)
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// row locks; writes serialize on the database file instead.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
