package client

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, search string) ([]Client, error)
	FindByID(ctx context.Context, id uint) (*Client, error)
	Create(ctx context.Context, c *Client) error
	CreateMany(ctx context.Context, cs []Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uint) error
	Phones(ctx context.Context) ([]string, error)
	Names(ctx context.Context, ids []uint) (map[uint]string, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context, search string) ([]Client, error) {
	var list []Client
	q := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ? OR organization ILIKE ?", like, like, like, like)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uint) (*Client, error) {
	var c Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Create(ctx context.Context, c *Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repositoryImpl) CreateMany(ctx context.Context, cs []Client) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(cs, 200).Error
}

func (r *repositoryImpl) Update(ctx context.Context, c *Client) error {
	return r.db.WithContext(ctx).Model(c).
		Select("name", "phone", "email", "organization").
		Updates(c).Error
}

// Delete removes only the client row; properties are left untouched.
func (r *repositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Phones(ctx context.Context) ([]string, error) {
	var phones []string
	err := r.db.WithContext(ctx).Model(&Client{}).Where("phone <> ''").Pluck("phone", &phones).Error
	return phones, err
}

// Names maps the ids that still exist to client names.
func (r *repositoryImpl) Names(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Client
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c.Name
	}
	return out, nil
}
