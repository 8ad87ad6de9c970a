package property

import (
	"context"

	"github.com/vanzari-imobiliare/api/internal/complex"
	"gorm.io/gorm"
)

type Repository interface {
	ListByComplex(ctx context.Context, complexID uint) ([]Property, error)
	FindByID(ctx context.Context, id string) (*Property, error)
	Create(ctx context.Context, p *Property) error
	SaveAttributes(ctx context.Context, id string, attrs Attributes) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	CountByPlanURL(ctx context.Context, url string) (int64, error)
	// ReplaceAll swaps every property of a complex and its column schema in
	// one transaction.
	ReplaceAll(ctx context.Context, complexID uint, props []Property, cols []complex.Column) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListByComplex(ctx context.Context, complexID uint) ([]Property, error) {
	var list []Property
	err := r.db.WithContext(ctx).Where("complex_id = ?", complexID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (*Property, error) {
	var p Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Create(ctx context.Context, p *Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repositoryImpl) SaveAttributes(ctx context.Context, id string, attrs Attributes) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"attributes": attrs})
}

func (r *repositoryImpl) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Property{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Property{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) CountByPlanURL(ctx context.Context, url string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Property{}).Where("plan_url = ?", url).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ReplaceAll(ctx context.Context, complexID uint, props []Property, cols []complex.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complex_id = ?", complexID).Delete(&Property{}).Error; err != nil {
			return err
		}
		if len(props) > 0 {
			if err := tx.CreateInBatches(props, 200).Error; err != nil {
				return err
			}
		}
		res := tx.Model(&complex.Complex{ID: complexID}).Select("columns").Updates(&complex.Complex{Columns: cols})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
