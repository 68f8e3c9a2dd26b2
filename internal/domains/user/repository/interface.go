package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-backend/internal/domains/user/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) (*model.User, error)
	List(ctx context.Context, search string, limit, offset int) ([]*model.User, int64, error)

	// ListCustomerIDs trả về id của mọi user không phải admin (fan-out email flash sale)
	ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error)
}
