package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
)

func TestCreateProperty(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	images := makeFileHeaders(t, "images", "front.jpg", "kitchen.png")
	property, err := e.property.Create(ctx, owner, createRequest("Yaba Bungalow"), images)
	require.NoError(t, err)

	require.Len(t, property.Images, 2)
	prefix := fmt.Sprintf("properties/%d/%d/", owner.ID, property.ID)
	for _, key := range property.Images {
		assert.True(t, strings.HasPrefix(key, prefix), "key %q", key)
	}

	stored, err := e.properties.GetByID(property.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yaba Bungalow", stored.Name)
	assert.Equal(t, "Lagos", stored.Location.State)
	assert.Equal(t, 3, stored.Features.NumberOfRooms)
	assert.ElementsMatch(t, property.Images, stored.Images)
}

func TestCreatePropertyValidation(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	req := createRequest("")
	_, err := e.property.Create(ctx, owner, req, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	req = createRequest("Priced Wrong")
	req.Price = -1
	_, err = e.property.Create(ctx, owner, req, nil)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreatePropertyQuota(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := e.property.Create(ctx, owner, createRequest(fmt.Sprintf("House %d", i)), nil)
		require.NoError(t, err)
	}

	_, err := e.property.Create(ctx, owner, createRequest("One Too Many"), nil)
	var quota *service.QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, models.PlanBasic, quota.Plan)
	assert.Equal(t, 2, quota.Limit)
	assert.Contains(t, err.Error(), "limit of 2 properties")
	assert.Contains(t, err.Error(), "Basic")
}

func TestQuotaLiftsAfterUpgrade(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := e.property.Create(ctx, owner, createRequest(fmt.Sprintf("House %d", i)), nil)
		require.NoError(t, err)
	}

	next, err := e.plan.Upgrade(owner)
	require.NoError(t, err)
	require.Equal(t, models.PlanStandard, next)

	owner, err = e.users.GetByID(owner.ID)
	require.NoError(t, err)

	_, err = e.property.Create(ctx, owner, createRequest("Third House"), nil)
	assert.NoError(t, err)
}

func TestPartialImageUpload(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	e.store.failAfter = 1
	images := makeFileHeaders(t, "images", "first.jpg", "second.jpg")
	property, err := e.property.Create(ctx, owner, createRequest("Half Uploaded"), images)

	var partial *service.PartialUploadError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "second.jpg", partial.Filename)
	require.Len(t, partial.Uploaded, 1)

	// the record survives and keeps the keys that made it
	require.NotNil(t, property)
	stored, err := e.properties.GetByID(property.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList(partial.Uploaded), stored.Images)
}

func TestListByOwner(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	_, err := e.property.ListByOwner(ctx, owner.ID)
	assert.ErrorIs(t, err, service.ErrNoProperties)

	e.insertProperty(t, owner.ID, "Lekki Duplex")
	views, err := e.property.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestGetPresignsImageURLs(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	images := makeFileHeaders(t, "images", "front.jpg")
	property, err := e.property.Create(ctx, owner, createRequest("Yaba Bungalow"), images)
	require.NoError(t, err)

	view, err := e.property.Get(ctx, property.ID)
	require.NoError(t, err)
	require.Len(t, view.Images, 1)
	assert.Equal(t, "https://cdn.test/"+property.Images[0], view.Images[0])

	_, err = e.property.Get(ctx, property.ID+99)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
}

func TestUpdateProperty(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	property := e.insertProperty(t, owner.ID, "Old Name")

	name := "New Name"
	price := 300000.0
	location := models.PropertyLocation{StreetAddress: "9 Bourdillon", Area: "Ikoyi", State: "Lagos"}
	err := e.property.Update(ctx, property.ID, owner.ID, &service.UpdateRequest{
		Name:     &name,
		Price:    &price,
		Location: &location,
	}, nil)
	require.NoError(t, err)

	stored, err := e.properties.GetByID(property.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, 300000.0, stored.Price)
	assert.Equal(t, "Ikoyi", stored.Location.Area)
	// untouched fields survive
	assert.Equal(t, "duplex", stored.PropertyType)
}

func TestUpdatePropertyReplacesImages(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	ctx := context.Background()

	images := makeFileHeaders(t, "images", "old.jpg")
	property, err := e.property.Create(ctx, owner, createRequest("Yaba Bungalow"), images)
	require.NoError(t, err)
	oldKey := property.Images[0]

	newImages := makeFileHeaders(t, "images", "new1.jpg", "new2.jpg")
	require.NoError(t, e.property.Update(ctx, property.ID, owner.ID, &service.UpdateRequest{}, newImages))

	stored, err := e.properties.GetByID(property.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 2)
	assert.NotContains(t, stored.Images, oldKey)
	assert.Contains(t, e.store.deleted(), oldKey)
}

func TestUpdatePropertyScopedToOwner(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	stranger := e.createUser(t, "other@example.com", "Secret1pass")
	ctx := context.Background()

	property := e.insertProperty(t, owner.ID, "Lekki Duplex")

	name := "Hijacked"
	err := e.property.Update(ctx, property.ID, stranger.ID, &service.UpdateRequest{Name: &name}, nil)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
}

func TestDeleteProperty(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	fan := e.createUser(t, "fan@example.com", "Secret1pass")
	ctx := context.Background()

	images := makeFileHeaders(t, "images", "front.jpg")
	property, err := e.property.Create(ctx, owner, createRequest("Yaba Bungalow"), images)
	require.NoError(t, err)
	require.NoError(t, e.wishlistSv.Add(fan.ID, property.ID))

	require.NoError(t, e.property.Delete(ctx, property.ID, owner.ID))

	_, err = e.properties.GetByID(property.ID)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
	assert.Contains(t, e.store.deleted(), property.Images[0])

	// wishlist entries pointing at the listing are gone too
	ids, err := e.wishlistSv.ListForUser(fan.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeletePropertyScopedToOwner(t *testing.T) {
	e := newEnv(t)
	owner := e.createUser(t, "seller@example.com", "Secret1pass")
	stranger := e.createUser(t, "other@example.com", "Secret1pass")
	ctx := context.Background()

	property := e.insertProperty(t, owner.ID, "Lekki Duplex")

	err := e.property.Delete(ctx, property.ID, stranger.ID)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)

	_, err = e.properties.GetByID(property.ID)
	assert.NoError(t, err)
}
