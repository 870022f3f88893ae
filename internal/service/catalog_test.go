package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homelist/homelist-api/internal/model"
)

func newCatalog(t *testing.T) (*CatalogService, *memHomes, *mockPurger) {
	t.Helper()
	users := newMemUsers(rita, roy, bob, admin)
	homes := newMemHomes(users)
	purger := &mockPurger{}
	return NewCatalogService(homes, users, purger), homes, purger
}

func condo(city string, price float64, images ...string) CreateHome {
	return CreateHome{Address: "1 Main St", City: city, Price: price, PropertyType: model.PropertyCondo, Images: images}
}

func TestCreateAndGet(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, condo("Toronto", 100, "a.jpg", "b.jpg"), rita.ID)
	require.NoError(t, err)
	assert.Equal(t, rita.ID, created.RealtorID)
	assert.Len(t, created.Images, 2)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", got.Images[0].URL)
	purger.AssertNumberOfCalls(t, "Purge", 1)
}

func TestGetWithoutImagesReturnsEmptyList(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	created, err := svc.Create(context.Background(), condo("Toronto", 100), rita.ID)
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Images)
	assert.Empty(t, got.Images)
}

func TestSearchFilters(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()
	for _, h := range []CreateHome{condo("Toronto", 100, "t1.jpg", "t2.jpg"), condo("Toronto", 300), condo("Ottawa", 200)} {
		_, err := svc.Create(ctx, h, rita.ID)
		require.NoError(t, err)
	}

	all, err := svc.Search(ctx, model.HomeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	floor := 150.0
	got, err := svc.Search(ctx, model.HomeFilter{City: "Toronto", MinPrice: &floor})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 300.0, got[0].Price)

	got, err = svc.Search(ctx, model.HomeFilter{City: "Toronto"})
	require.NoError(t, err)
	assert.Equal(t, "t1.jpg", got[0].Image)
}

func TestUpdateMissingHome(t *testing.T) {
	svc, _, purger := newCatalog(t)
	city := "Ottawa"
	_, err := svc.Update(context.Background(), 99, model.HomeChanges{City: &city})
	assert.ErrorIs(t, err, ErrNotFound)
	purger.AssertNotCalled(t, "Purge", mock.Anything)
}

func TestUpdateKeepsOtherFields(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, condo("Toronto", 100, "a.jpg"), rita.ID)
	require.NoError(t, err)

	price := 120.0
	updated, err := svc.Update(ctx, created.ID, model.HomeChanges{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)
	assert.Equal(t, "Toronto", updated.City)
	assert.Len(t, updated.Images, 1)
}

func TestDelete(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, condo("Toronto", 100, "a.jpg"), rita.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestPurgeFailureDoesNotFailMutation(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(errors.New("redis down"))

	_, err := svc.Create(context.Background(), condo("Toronto", 100), rita.ID)
	assert.NoError(t, err)
}

func TestAssertOwner(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, condo("Toronto", 100), rita.ID)
	require.NoError(t, err)

	assert.NoError(t, svc.AssertOwner(ctx, created.ID, rita))
	assert.ErrorIs(t, svc.AssertOwner(ctx, created.ID, roy), ErrNotOwner)
	assert.ErrorIs(t, svc.AssertOwner(ctx, created.ID, admin), ErrNotOwner)
	assert.ErrorIs(t, svc.AssertOwner(ctx, 99, rita), ErrNotFound)
}

func TestOwningRealtor(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	created, err := svc.Create(context.Background(), condo("Toronto", 100), rita.ID)
	require.NoError(t, err)

	c, err := svc.OwningRealtor(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Contact{ID: rita.ID, Name: rita.Name, Email: rita.Email, Phone: rita.Phone}, c)
}

func TestReassign(t *testing.T) {
	svc, _, purger := newCatalog(t)
	purger.On("Purge", mock.Anything).Return(nil)
	ctx := context.Background()
	created, err := svc.Create(ctx, condo("Toronto", 100), rita.ID)
	require.NoError(t, err)

	_, err = svc.Reassign(ctx, created.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotRealtor)

	_, err = svc.Reassign(ctx, created.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	moved, err := svc.Reassign(ctx, created.ID, roy.ID)
	require.NoError(t, err)
	assert.Equal(t, roy.ID, moved.RealtorID)
	assert.ErrorIs(t, svc.AssertOwner(ctx, created.ID, rita), ErrNotOwner)
}
