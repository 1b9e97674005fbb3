package service

import (
	"context"
	"testing"

	"farmstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	store := &fakeContactStore{}
	events := &fakePublisher{}
	svc := NewContactService(store, events)

	req := &models.ContactRequest{
		Name:   "Иван",
		Email:  "ivan@example.com",
		Phone:  "+79211234567",
		Source: "product_page",
	}
	require.NoError(t, svc.Submit(context.Background(), req))

	require.Len(t, store.saved, 1)
	assert.Equal(t, "product_page", store.saved[0].Source)
	assert.Equal(t, 1, events.contactSubmitted)
}

func TestContactSubmitDefaultSource(t *testing.T) {
	store := &fakeContactStore{}
	svc := NewContactService(store, &fakePublisher{})

	req := &models.ContactRequest{Name: "Иван", Email: "ivan@example.com", Phone: "+79211234567"}
	require.NoError(t, svc.Submit(context.Background(), req))

	assert.Equal(t, "home", store.saved[0].Source)
}
