package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"postboard/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, page models.PageRequest) ([]models.Post, error)
	Count(ctx context.Context) (int, error)
	UpdateOwned(ctx context.Context, post *models.Post) error
	DeleteOwned(ctx context.Context, postID, creatorID string) error
}

type Repository struct {
	Post PostRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Post: NewPostRepository(db),
	}
}
