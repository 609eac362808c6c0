package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"postboard/internal/apperr"
	"postboard/internal/auth"
	"postboard/internal/ingest"
	"postboard/internal/models"
)

func newTestService(repo *MockPostRepository, store *MockStore) PostService {
	return NewPostService(repo, store, ingest.New(), auth.ContextGate{})
}

func asPrincipal(principal string) context.Context {
	return auth.WithPrincipal(context.Background(), principal)
}

func pngUpload() *Upload {
	return &Upload{
		Name:        "My Photo.png",
		ContentType: "image/png",
		Reader:      bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}),
		Size:        4,
	}
}

func TestPostService_Create(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
		return post.CreatorID == "u1" && post.Title == "T" && post.Content == "C" && post.ImagePath == ""
	})).Return(nil)

	post, err := svc.Create(asPrincipal("u1"), CreatePostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	assert.Equal(t, "u1", post.CreatorID)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "C", post.Content)
	repo.AssertExpectations(t)
	store.AssertNotCalled(t, "Put")
}

func TestPostService_Create_WithAttachment(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	var storedName string
	store.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything, int64(4)).
		Run(func(args mock.Arguments) { storedName = args.String(1) }).
		Return(nil)
	store.On("Locator", mock.Anything).
		Return("http://localhost:8080/images/my-photo-1.png")
	repo.On("Create", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
		return post.ImagePath == "http://localhost:8080/images/my-photo-1.png"
	})).Return(nil)

	post, err := svc.Create(asPrincipal("u1"), CreatePostRequest{
		Title:   "T",
		Content: "C",
		Upload:  pngUpload(),
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/images/my-photo-1.png", post.ImagePath)
	assert.True(t, strings.HasPrefix(storedName, "my-photo-"))
	assert.True(t, strings.HasSuffix(storedName, ".png"))
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPostService_Create_UnsupportedAttachment(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	gif := &Upload{
		Name:        "anim.gif",
		ContentType: "image/gif",
		Reader:      bytes.NewReader([]byte("GIF89a")),
		Size:        6,
	}

	_, err := svc.Create(asPrincipal("u1"), CreatePostRequest{
		Title:   "T",
		Content: "C",
		Upload:  gif,
	})

	require.Error(t, err)
	assert.Equal(t, apperr.UnsupportedAttachment, apperr.KindOf(err))

	// Rejection happens before any byte is written or any record created.
	store.AssertNotCalled(t, "Put")
	repo.AssertNotCalled(t, "Create")
}

func TestPostService_Create_DeclaredUnsupportedTypeWithImageBytes(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	// A declared unsupported type must be rejected even when the payload
	// bytes are a valid image of an allowed format.
	disguised := &Upload{
		Name:        "photo.gif",
		ContentType: "image/gif",
		Reader:      bytes.NewReader([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}),
		Size:        8,
	}

	_, err := svc.Create(asPrincipal("u1"), CreatePostRequest{
		Title:   "T",
		Content: "C",
		Upload:  disguised,
	})

	require.Error(t, err)
	assert.Equal(t, apperr.UnsupportedAttachment, apperr.KindOf(err))
	store.AssertNotCalled(t, "Put")
	repo.AssertNotCalled(t, "Create")
}

func TestPostService_Create_NoPrincipal(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	_, err := svc.Create(context.Background(), CreatePostRequest{Title: "T", Content: "C"})

	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Create")
}

func TestPostService_Create_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreatePostRequest
	}{
		{name: "empty title", req: CreatePostRequest{Title: "", Content: "C"}},
		{name: "blank title", req: CreatePostRequest{Title: "   ", Content: "C"}},
		{name: "empty content", req: CreatePostRequest{Title: "T", Content: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPostRepository)
			store := new(MockStore)
			svc := newTestService(repo, store)

			_, err := svc.Create(asPrincipal("u1"), tt.req)

			require.Error(t, err)
			assert.Equal(t, apperr.ValidationFailed, apperr.KindOf(err))
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestPostService_Create_DiscardsUploadWhenPersistFails(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	store.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything, int64(4)).Return(nil)
	store.On("Locator", mock.Anything).Return("http://localhost:8080/images/x.png")
	repo.On("Create", mock.Anything, mock.Anything).
		Return(apperr.New(apperr.StorageFailure, "could not create post"))
	store.On("Remove", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(asPrincipal("u1"), CreatePostRequest{
		Title:   "T",
		Content: "C",
		Upload:  pngUpload(),
	})

	require.Error(t, err)
	store.AssertCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestPostService_Update(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	repo.On("UpdateOwned", mock.Anything, mock.MatchedBy(func(post *models.Post) bool {
		// No attachment: an empty image path preserves the stored one.
		return post.PostID == "p1" && post.CreatorID == "u1" && post.ImagePath == ""
	})).Return(nil)
	repo.On("GetByID", mock.Anything, "p1").Return(&models.Post{
		PostID:    "p1",
		CreatorID: "u1",
		Title:     "new",
		Content:   "newer",
		ImagePath: "http://localhost:8080/images/kept.png",
	}, nil)

	post, err := svc.Update(asPrincipal("u1"), "p1", UpdatePostRequest{Title: "new", Content: "newer"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/images/kept.png", post.ImagePath)
	repo.AssertExpectations(t)
}

func TestPostService_Update_Forbidden(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	repo.On("UpdateOwned", mock.Anything, mock.Anything).
		Return(apperr.New(apperr.Forbidden, "only the creator may modify this post"))

	_, err := svc.Update(asPrincipal("u2"), "p1", UpdatePostRequest{Title: "t", Content: "c"})

	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	repo.AssertNotCalled(t, "GetByID")
}

func TestPostService_Update_DiscardsUploadWhenForbidden(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	store.On("Put", mock.Anything, mock.Anything, "image/png", mock.Anything, int64(4)).Return(nil)
	store.On("Locator", mock.Anything).Return("http://localhost:8080/images/x.png")
	repo.On("UpdateOwned", mock.Anything, mock.Anything).
		Return(apperr.New(apperr.Forbidden, "only the creator may modify this post"))
	store.On("Remove", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Update(asPrincipal("u2"), "p1", UpdatePostRequest{
		Title:   "t",
		Content: "c",
		Upload:  pngUpload(),
	})

	require.Error(t, err)
	store.AssertCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestPostService_Get(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, "p1").Return(&models.Post{PostID: "p1"}, nil)

	// Read is public: no principal in the context.
	post, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.PostID)
}

func TestPostService_Get_EmptyID(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	_, err := svc.Get(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	repo.AssertNotCalled(t, "GetByID")
}

func TestPostService_List(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	page := models.PageRequest{PageSize: 1, PageIndex: 2}
	repo.On("List", mock.Anything, page).Return([]models.Post{{PostID: "p2"}}, nil)
	repo.On("Count", mock.Anything).Return(5, nil)

	result, err := svc.List(context.Background(), page)
	require.NoError(t, err)

	assert.Len(t, result.Posts, 1)
	assert.Equal(t, 5, result.TotalCount, "total must be the collection count, not the page length")
}

func TestPostService_List_EmptyWindowKeepsTotal(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	page := models.PageRequest{PageSize: 1, PageIndex: 2}
	repo.On("List", mock.Anything, page).Return([]models.Post(nil), nil)
	repo.On("Count", mock.Anything).Return(1, nil)

	result, err := svc.List(context.Background(), page)
	require.NoError(t, err)

	assert.NotNil(t, result.Posts)
	assert.Empty(t, result.Posts)
	assert.Equal(t, 1, result.TotalCount)
}

func TestPostService_Delete(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	repo.On("DeleteOwned", mock.Anything, "p1", "u1").Return(nil)

	err := svc.Delete(asPrincipal("u1"), "p1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPostService_Delete_NoPrincipal(t *testing.T) {
	repo := new(MockPostRepository)
	store := new(MockStore)
	svc := newTestService(repo, store)

	err := svc.Delete(context.Background(), "p1")

	require.Error(t, err)
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
	repo.AssertNotCalled(t, "DeleteOwned")
}
