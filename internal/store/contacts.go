package store

import (
	"context"

	"farmstore/internal/models"
)

// CreateContactRequest persists a contact form submission.
func (s *Store) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO contact_requests (name, email, phone, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		req.Name, req.Email, req.Phone, req.Source,
	).Scan(&req.ID, &req.CreatedAt)
}
