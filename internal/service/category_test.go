package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/sop-assistant/internal/domain"
)

func TestCategoryService_Create(t *testing.T) {
	repo := new(MockCategoryRepository)
	cache := new(MockStatsCache)
	svc := NewCategoryService(repo, cache)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.SopCategory")).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	got, err := svc.Create(context.Background(), domain.CategoryInput{Name: "Damaged"})

	require.NoError(t, err)
	assert.Equal(t, "Damaged", got.Name)
	assert.Nil(t, got.Description)
	assert.NotEqual(t, uuid.Nil, got.ID)
	cache.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrCategoryExists)

	_, err := svc.Create(context.Background(), domain.CategoryInput{Name: "Damaged"})

	assert.ErrorIs(t, err, domain.ErrCategoryExists)
}

func TestCategoryService_Update_NotFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.Update(context.Background(), id, domain.CategoryInput{Name: "x"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("blocked while sops reference it", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo, nil)
		repo.On("GetByID", mock.Anything, id).Return(&domain.SopCategory{ID: id, Name: "Damaged"}, nil)
		repo.On("CountSops", mock.Anything, id).Return(3, nil)

		err := svc.Delete(context.Background(), id)

		assert.ErrorIs(t, err, domain.ErrCategoryInUse)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo, nil)
		repo.On("GetByID", mock.Anything, id).Return(nil, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrNotFound)
	})

	t.Run("unused", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		cache := new(MockStatsCache)
		svc := NewCategoryService(repo, cache)
		repo.On("GetByID", mock.Anything, id).Return(&domain.SopCategory{ID: id, Name: "Faulty"}, nil)
		repo.On("CountSops", mock.Anything, id).Return(0, nil)
		repo.On("Delete", mock.Anything, id).Return(nil)
		cache.On("Invalidate", mock.Anything).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), id))
		repo.AssertCalled(t, "Delete", mock.Anything, id)
	})
}

func TestCategoryService_SeedDefaults(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo, nil)

	var names []string
	repo.On("EnsureByName", mock.Anything, mock.AnythingOfType("*domain.SopCategory")).
		Run(func(args mock.Arguments) {
			names = append(names, args.Get(1).(*domain.SopCategory).Name)
		}).
		Return(nil)

	require.NoError(t, svc.SeedDefaults(context.Background()))

	assert.Len(t, names, len(domain.DefaultCategories))
	assert.Equal(t, "Damaged", names[0])
	assert.Contains(t, names, "Special SOP (Seller Dispute)")
}
