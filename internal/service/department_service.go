package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medmsg/internal/cache"
	"medmsg/internal/model"
	"medmsg/internal/repository"
)

const (
	departmentsCacheKey = "departments"
	departmentsCacheTTL = 5 * time.Minute
)

// defaultDepartments is the canonical seed set. Departments are read-only
// after seeding.
var defaultDepartments = []model.Department{
	{Name: "Cardiology", Description: "Cardiology department"},
	{Name: "Neurology", Description: "Neurology department"},
	{Name: "Surgery", Description: "Surgical department"},
	{Name: "Internal Medicine", Description: "Internal medicine department"},
	{Name: "Pediatrics", Description: "Children's department"},
	{Name: "Intensive Care", Description: "Intensive care unit"},
	{Name: "Administration", Description: "Administrative office"},
}

// DepartmentService lists departments and seeds the initial set.
type DepartmentService interface {
	List(ctx context.Context) ([]model.Department, error)
	SeedDefaults(ctx context.Context) error
}

type departmentService struct {
	repo  repository.DepartmentRepository
	cache *cache.Client
}

// NewDepartmentService builds a DepartmentService with repository and cache.
func NewDepartmentService(repo repository.DepartmentRepository, cache *cache.Client) DepartmentService {
	return &departmentService{repo: repo, cache: cache}
}

func (s *departmentService) List(ctx context.Context) ([]model.Department, error) {
	if data, _ := s.cache.Get(ctx, departmentsCacheKey); data != nil {
		var cached []model.Department
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	depts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(depts); err == nil {
		_ = s.cache.Set(ctx, departmentsCacheKey, payload, departmentsCacheTTL)
	}
	return depts, nil
}

// SeedDefaults inserts the canonical department set when the table is
// empty. A populated table is left untouched, so re-running is safe.
func (s *departmentService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count departments: %w", err)
	}
	if n > 0 {
		return nil
	}

	for i := range defaultDepartments {
		dept := defaultDepartments[i]
		if err := s.repo.FirstOrCreate(ctx, &dept); err != nil {
			return fmt.Errorf("seed department %s: %w", dept.Name, err)
		}
	}
	return nil
}
