package client

import (
	"context"
	"sync"

	"postboard/internal/models"
)

// PageUpdate is what subscribers receive whenever the cached page
// changes: the current page of posts plus the collection-wide total.
type PageUpdate struct {
	Posts      []models.Post
	TotalCount int
}

// Subscription detaches a subscriber. Detachment is the caller's job;
// nothing is torn down implicitly.
type Subscription struct {
	cancel func()
}

func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// postAPI is the slice of the transport the store needs.
type postAPI interface {
	CreatePost(ctx context.Context, title, content string, att *Attachment) (*models.Post, error)
	UpdatePost(ctx context.Context, postID, title, content string, att *Attachment) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context, pageSize, pageIndex int) (*models.PostPage, error)
	DeletePost(ctx context.Context, postID string) error
}

// PostStore is the client-resident cache of the current page. It is a
// disposable read cache, never the system of record: every mutation goes
// to the server, and the visible page only changes when a FetchPage
// succeeds. Mutations deliberately do not refresh the cache themselves,
// so several can be batched before one refresh.
type PostStore struct {
	api postAPI

	mu         sync.Mutex
	posts      []models.Post
	totalCount int
	nextID     int
	subs       map[int]func(PageUpdate)

	// fetchGen / appliedGen discard responses of superseded fetches, so
	// a stale page that completes late never overwrites a newer one.
	fetchGen   uint64
	appliedGen uint64
}

func NewPostStore(api postAPI) *PostStore {
	return &PostStore{
		api:  api,
		subs: make(map[int]func(PageUpdate)),
	}
}

// Subscribe registers a callback that receives every subsequent
// publication until its Subscription is explicitly detached. Callbacks
// run in registration order.
func (s *PostStore) Subscribe(fn func(PageUpdate)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}}
}

// Current returns a snapshot of the cached page.
func (s *PostStore) Current() PageUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PageUpdate{Posts: copyPosts(s.posts), TotalCount: s.totalCount}
}

// FetchPage fetches one page and, on success, replaces the cache and
// publishes to every subscriber. On failure the cache and subscribers
// are left untouched and the error goes to the caller; stale data is
// never republished as fresh.
func (s *PostStore) FetchPage(ctx context.Context, pageSize, pageIndex int) error {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()

	page, err := s.api.ListPosts(ctx, pageSize, pageIndex)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if gen < s.appliedGen {
		// A later-dispatched fetch already applied; this response is stale.
		s.mu.Unlock()
		return nil
	}
	s.appliedGen = gen
	s.posts = page.Posts
	s.totalCount = page.TotalCount
	update := PageUpdate{Posts: copyPosts(s.posts), TotalCount: s.totalCount}
	callbacks := snapshotCallbacks(s.subs)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(update)
	}
	return nil
}

// GetOne is a one-shot passthrough that never touches the shared cache,
// so out-of-band reads cannot corrupt the visible page.
func (s *PostStore) GetOne(ctx context.Context, postID string) (*models.Post, error) {
	return s.api.GetPost(ctx, postID)
}

// AddPost issues the create only; the caller triggers FetchPage to see it.
func (s *PostStore) AddPost(ctx context.Context, title, content string, att *Attachment) (*models.Post, error) {
	return s.api.CreatePost(ctx, title, content, att)
}

// UpdatePost issues the update only; the caller triggers FetchPage to see it.
func (s *PostStore) UpdatePost(ctx context.Context, postID, title, content string, att *Attachment) (*models.Post, error) {
	return s.api.UpdatePost(ctx, postID, title, content, att)
}

// DeletePost issues the delete only; the cached page does not shrink
// until the caller re-fetches.
func (s *PostStore) DeletePost(ctx context.Context, postID string) error {
	return s.api.DeletePost(ctx, postID)
}

func copyPosts(posts []models.Post) []models.Post {
	if posts == nil {
		return nil
	}
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
