package complex

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Complex, error)
	FindByID(ctx context.Context, id uint) (*Complex, error)
	Create(ctx context.Context, c *Complex) error
	Update(ctx context.Context, c *Complex) error
	Delete(ctx context.Context, id uint) error
	SetCommissionPolicy(ctx context.Context, id uint, p CommissionPolicy) error
	SetColumns(ctx context.Context, id uint, cols []Column) error
	UpdateCounters(ctx context.Context, id uint, c Counters) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context) ([]Complex, error) {
	var list []Complex
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uint) (*Complex, error) {
	var c Complex
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Create(ctx context.Context, c *Complex) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repositoryImpl) Update(ctx context.Context, c *Complex) error {
	return r.db.WithContext(ctx).Model(c).Select("name", "address").Updates(c).Error
}

// Delete removes the complex together with its properties.
func (r *repositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM properties WHERE complex_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Complex{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repositoryImpl) SetCommissionPolicy(ctx context.Context, id uint, p CommissionPolicy) error {
	return r.updates(ctx, id, map[string]interface{}{
		"commission_type":   p.Type,
		"commission_value":  p.Value,
		"commission_target": p.Target,
	})
}

func (r *repositoryImpl) SetColumns(ctx context.Context, id uint, cols []Column) error {
	return r.db.WithContext(ctx).Model(&Complex{ID: id}).Select("columns").Updates(&Complex{Columns: cols}).Error
}

func (r *repositoryImpl) UpdateCounters(ctx context.Context, id uint, c Counters) error {
	return r.updates(ctx, id, map[string]interface{}{
		"total_properties":      c.Total,
		"available_properties":  c.Available,
		"reserved_properties":   c.Reserved,
		"sold_properties":       c.Sold,
		"sold_commission_total": c.SoldCommission,
	})
}

func (r *repositoryImpl) updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Complex{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
