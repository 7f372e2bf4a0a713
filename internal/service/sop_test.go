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

func TestSopService_Create(t *testing.T) {
	repo := new(MockSopRepository)
	cache := new(MockStatsCache)
	svc := NewSopService(repo, cache)
	caller := domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}

	var created *domain.Sop
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Sop")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Sop) }).
		Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Sop{Title: "Broken screen", CategoryName: "Damaged"}, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	got, err := svc.Create(context.Background(), caller, domain.SopCreate{
		Title:      "Broken screen",
		Content:    "Ask for photos",
		CategoryID: uuid.New(),
		Evidence:   []string{"Unboxing video", "Photo of damage"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Damaged", got.CategoryName)
	require.NotNil(t, created)
	assert.Equal(t, 1, created.Version)
	assert.True(t, created.IsActive)
	assert.Equal(t, caller.UserID, created.CreatedBy)
	assert.Equal(t, []string{"Unboxing video", "Photo of damage"}, created.EvidenceDescriptions())
	assert.True(t, created.Evidence[1].CreatedAt.After(created.Evidence[0].CreatedAt))
}

func TestSopService_Create_UnknownCategory(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUnknownCategory)

	_, err := svc.Create(context.Background(), domain.Caller{UserID: uuid.New()}, domain.SopCreate{
		Title: "t", Content: "c", CategoryID: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestSopService_Patch_Empty(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)

	_, err := svc.Patch(context.Background(), uuid.New(), domain.SopPatch{})

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSopService_Patch_SingleField(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)
	id := uuid.New()
	existing := &domain.Sop{ID: id, Title: "Old", Content: "c", Version: 2, IsActive: true}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing, []string(nil)).Return(nil)

	inactive := false
	got, err := svc.Patch(context.Background(), id, domain.SopPatch{IsActive: &inactive})

	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Old", got.Title)
	assert.Equal(t, 2, got.Version)
}

func TestSopService_Patch_ClearsEvidence(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)
	id := uuid.New()
	existing := &domain.Sop{ID: id, Title: "t"}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing, []string{}).Return(nil)

	var none []string
	_, err := svc.Patch(context.Background(), id, domain.SopPatch{Evidence: &none})

	require.NoError(t, err)
	repo.AssertCalled(t, "Update", mock.Anything, existing, []string{})
}

func TestSopService_Update_KeepsEvidenceWhenAbsent(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)
	id := uuid.New()
	existing := &domain.Sop{ID: id, Title: "t", Version: 1}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing, []string(nil)).Return(nil)

	got, err := svc.Update(context.Background(), id, domain.SopUpdate{
		Title: "New", Content: "c2", CategoryID: uuid.New(), Version: 2, IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 2, got.Version)
}

func TestSopService_Get_NotFound(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSopService_Delete(t *testing.T) {
	repo := new(MockSopRepository)
	cache := new(MockStatsCache)
	svc := NewSopService(repo, cache)
	present, missing := uuid.New(), uuid.New()

	repo.On("Delete", mock.Anything, present).Return(true, nil)
	repo.On("Delete", mock.Anything, missing).Return(false, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), present))
	assert.ErrorIs(t, svc.Delete(context.Background(), missing), domain.ErrNotFound)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestSopService_SeedSamples(t *testing.T) {
	repo := new(MockSopRepository)
	cache := new(MockStatsCache)
	svc := NewSopService(repo, cache)
	author := uuid.New()
	damaged := domain.SopCategory{ID: uuid.New(), Name: "Damaged"}
	wrong := domain.SopCategory{ID: uuid.New(), Name: "Wrong"}

	samples := []domain.SampleSop{
		{CategoryName: "Damaged", Title: "Already there", Content: "c"},
		{CategoryName: "Wrong", Title: "Wrong item", Content: "c", Evidence: []string{"Photo of label", "Order receipt"}},
		{CategoryName: "Expired", Title: "No category", Content: "c"},
	}

	repo.On("List", mock.Anything, domain.SopFilter{}).Return([]domain.Sop{{Title: "Already there"}}, nil)
	var created []*domain.Sop
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Sop")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*domain.Sop)) }).
		Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	count, err := svc.SeedSamples(context.Background(), author, []domain.SopCategory{damaged, wrong}, samples)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, created, 1)
	assert.Equal(t, "Wrong item", created[0].Title)
	assert.Equal(t, wrong.ID, created[0].CategoryID)
	assert.Equal(t, author, created[0].CreatedBy)
	assert.True(t, created[0].IsActive)
	assert.Equal(t, []string{"Photo of label", "Order receipt"}, created[0].EvidenceDescriptions())
	cache.AssertCalled(t, "Invalidate", mock.Anything)
}

func TestSopService_SeedSamples_Idempotent(t *testing.T) {
	repo := new(MockSopRepository)
	svc := NewSopService(repo, nil)

	var existing []domain.Sop
	for _, sample := range domain.SampleSops {
		existing = append(existing, domain.Sop{Title: sample.Title})
	}
	repo.On("List", mock.Anything, domain.SopFilter{}).Return(existing, nil)

	count, err := svc.SeedSamples(context.Background(), uuid.New(), []domain.SopCategory{{ID: uuid.New(), Name: "Damaged"}}, domain.SampleSops)

	require.NoError(t, err)
	assert.Zero(t, count)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
