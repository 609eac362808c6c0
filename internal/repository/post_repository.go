package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"postboard/internal/apperr"
	"postboard/internal/models"
)

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

const postColumns = `post_id, creator_id, title, content, image_path, created_at, updated_at`

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts
        (post_id, creator_id, title, content, image_path, created_at, updated_at)
        VALUES
        (:post_id, :creator_id, :title, :content, :image_path, :created_at, :updated_at)
    `

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not create post", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Newf(apperr.NotFound, "no post found with id %s", postID)
		}
		return nil, apperr.Wrap(apperr.StorageFailure, "could not get post", err)
	}

	return &post, nil
}

// List returns one window of the collection in insertion order, or the
// whole collection when the request carries no window.
func (r *PostRepositoryImpl) List(ctx context.Context, page models.PageRequest) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY seq`

	var posts []models.Post
	var err error

	if page.Windowed() {
		query += ` LIMIT $1 OFFSET $2`
		err = r.db.SelectContext(ctx, &posts, query, page.PageSize, (page.PageIndex-1)*page.PageSize)
	} else {
		err = r.db.SelectContext(ctx, &posts, query)
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.StorageFailure, "could not list posts", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return 0, apperr.Wrap(apperr.StorageFailure, "could not count posts", err)
	}

	return count, nil
}

// UpdateOwned overwrites title, content and image path in a single
// conditional write keyed by post id and creator id, so the ownership
// check and the effect cannot be separated by a concurrent request. An
// empty image path in the argument leaves the stored one unchanged.
func (r *PostRepositoryImpl) UpdateOwned(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = :title,
			content = :content,
			image_path = CASE WHEN :image_path = '' THEN image_path ELSE :image_path END,
			updated_at = :updated_at
		WHERE post_id = :post_id AND creator_id = :creator_id
	`

	post.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not update post", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not check updated rows", err)
	}

	if rowsAffected == 0 {
		return r.missOrForbidden(ctx, post.PostID)
	}

	return nil
}

// DeleteOwned removes the record under the same conditional-write
// ownership discipline as UpdateOwned.
func (r *PostRepositoryImpl) DeleteOwned(ctx context.Context, postID, creatorID string) error {
	query := `DELETE FROM posts WHERE post_id = $1 AND creator_id = $2`

	result, err := r.db.ExecContext(ctx, query, postID, creatorID)
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not delete post", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, "could not check deleted rows", err)
	}

	if rowsAffected == 0 {
		return r.missOrForbidden(ctx, postID)
	}

	return nil
}

// missOrForbidden disambiguates a zero-row conditional write: the record
// either does not exist (NotFound) or belongs to someone else (Forbidden).
func (r *PostRepositoryImpl) missOrForbidden(ctx context.Context, postID string) error {
	if _, err := r.GetByID(ctx, postID); err != nil {
		return err
	}
	return apperr.New(apperr.Forbidden, "only the creator may modify this post")
}
