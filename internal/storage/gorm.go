package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Fazal135/simple-order-app/internal/models"
)

// GormStore implements the customer, order and challenge stores over gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open, migrated gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func itemsInCartOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (s *GormStore) findCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, ErrNotFound
		}
		return models.Customer{}, err
	}
	return customer, nil
}

func (s *GormStore) EnsureCustomer(ctx context.Context, name, email string) (models.Customer, bool, error) {
	candidate := models.Customer{Name: name, Email: email}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if result.Error != nil {
		return models.Customer{}, false, result.Error
	}
	if result.RowsAffected == 1 {
		return candidate, true, nil
	}

	existing, err := s.findCustomerByEmail(ctx, email)
	if err != nil {
		return models.Customer{}, false, err
	}
	return existing, false, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			order.Items = items
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			items[i].Position = i
		}
		order.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

func (s *GormStore) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", itemsInCartOrder).
		First(&order, "id = ? AND customer_id = ?", orderID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (s *GormStore) ListOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items", itemsInCartOrder).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *GormStore) PutChallenge(ctx context.Context, challenge Challenge) error {
	row := models.OTPChallenge{
		Email:     challenge.Email,
		Nonce:     challenge.Nonce,
		CodeHash:  challenge.CodeHash,
		Name:      challenge.Name,
		ExpiresAt: challenge.ExpiresAt.UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"nonce", "code_hash", "name", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *GormStore) GetChallenge(ctx context.Context, email string) (Challenge, error) {
	var row models.OTPChallenge
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Challenge{}, ErrNotFound
		}
		return Challenge{}, err
	}
	return Challenge{
		Email:     row.Email,
		Nonce:     row.Nonce,
		CodeHash:  row.CodeHash,
		Name:      row.Name,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (s *GormStore) ConsumeChallenge(ctx context.Context, email, nonce string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("email = ? AND nonce = ?", email, nonce).
		Delete(&models.OTPChallenge{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&models.OTPChallenge{})
	return result.RowsAffected, result.Error
}
