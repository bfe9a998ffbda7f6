package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

// Update leaves balance alone unless asked, so concurrent sale and payment deltas are not lost
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer, setBalance bool) error {
	columns := []string{"name", "phone", "alt_phone", "gst_number", "email", "address", "updated_at"}
	if setBalance {
		columns = append(columns, "balance")
	}
	return r.db.WithContext(ctx).Model(customer).Select(columns).Updates(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, term string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(search(term, "name", "phone", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(paginate(params), byName).Find(&customers).Error

	return customers, total, err
}
