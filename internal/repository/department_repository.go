package repository

import (
	"context"

	"gorm.io/gorm"

	"medmsg/internal/model"
)

// DepartmentRepository defines department persistence operations.
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Count(ctx context.Context) (int64, error)
	FirstOrCreate(ctx context.Context, dept *model.Department) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Department{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// FirstOrCreate inserts the department unless one with the same name exists.
func (r *departmentRepository) FirstOrCreate(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).
		Where("name = ?", dept.Name).
		FirstOrCreate(dept).Error
}
