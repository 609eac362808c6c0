package service

import (
	"context"
	"io"
	"strings"
	"time"

	"postboard/internal/apperr"
	"postboard/internal/auth"
	"postboard/internal/ingest"
	"postboard/internal/models"
	"postboard/internal/repository"
	"postboard/internal/storage"
)

// Upload is a proposed attachment: the declared type is checked against
// the ingestor's allow-list before any byte reaches the store.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type CreatePostRequest struct {
	Title   string
	Content string
	Upload  *Upload
}

type UpdatePostRequest struct {
	Title   string
	Content string
	Upload  *Upload
}

type PostService interface {
	Create(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, postID string, req UpdatePostRequest) (*models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	List(ctx context.Context, page models.PageRequest) (*models.PostPage, error)
	Delete(ctx context.Context, postID string) error
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Store
	ingestor *ingest.Ingestor
	gate     auth.Gate
}

func NewPostService(postRepo repository.PostRepository, storage storage.Store, ingestor *ingest.Ingestor, gate auth.Gate) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  storage,
		ingestor: ingestor,
		gate:     gate,
	}
}

func (p *postService) Create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	principal, err := p.gate.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := requireFields(req.Title, req.Content); err != nil {
		return nil, err
	}

	imagePath, objectName, err := p.ingestUpload(ctx, req.Upload)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		CreatorID: principal,
		Title:     req.Title,
		Content:   req.Content,
		ImagePath: imagePath,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		p.discardUpload(ctx, objectName)
		return nil, err
	}

	return post, nil
}

func (p *postService) Update(ctx context.Context, postID string, req UpdatePostRequest) (*models.Post, error) {
	principal, err := p.gate.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if postID == "" {
		return nil, apperr.New(apperr.NotFound, "no post found")
	}

	if err := requireFields(req.Title, req.Content); err != nil {
		return nil, err
	}

	imagePath, objectName, err := p.ingestUpload(ctx, req.Upload)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		PostID:    postID,
		CreatorID: principal,
		Title:     req.Title,
		Content:   req.Content,
		ImagePath: imagePath,
	}

	if err := p.postRepo.UpdateOwned(ctx, post); err != nil {
		p.discardUpload(ctx, objectName)
		return nil, err
	}

	return p.postRepo.GetByID(ctx, postID)
}

// Get is public: no principal and no ownership check.
func (p *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, apperr.New(apperr.NotFound, "no post found")
	}
	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) List(ctx context.Context, page models.PageRequest) (*models.PostPage, error) {
	posts, err := p.postRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	// Total always counts the whole collection, not the window, so the
	// client can compute the page count.
	total, err := p.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []models.Post{}
	}

	return &models.PostPage{Posts: posts, TotalCount: total}, nil
}

func (p *postService) Delete(ctx context.Context, postID string) error {
	principal, err := p.gate.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	if postID == "" {
		return apperr.New(apperr.NotFound, "no post found")
	}

	return p.postRepo.DeleteOwned(ctx, postID, principal)
}

// ingestUpload validates and persists a proposed attachment, returning
// its public locator and object name. A nil upload yields empty strings.
// Validation failure aborts before any byte is written.
func (p *postService) ingestUpload(ctx context.Context, upload *Upload) (string, string, error) {
	if upload == nil {
		return "", "", nil
	}

	contentType, reader, err := p.ingestor.Sniff(upload.ContentType, upload.Reader)
	if err != nil {
		return "", "", err
	}

	objectName, err := p.ingestor.StorageName(upload.Name, contentType, time.Now())
	if err != nil {
		return "", "", err
	}

	if err := p.storage.Put(ctx, objectName, contentType, reader, upload.Size); err != nil {
		return "", "", err
	}

	return p.storage.Locator(objectName), objectName, nil
}

// discardUpload compensates a stored attachment when the owning write
// fails, so no orphaned bytes survive a failed create or update.
func (p *postService) discardUpload(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	_ = p.storage.Remove(ctx, objectName)
}

func requireFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.New(apperr.ValidationFailed, "title is required")
	}
	if strings.TrimSpace(content) == "" {
		return apperr.New(apperr.ValidationFailed, "content is required")
	}
	return nil
}
