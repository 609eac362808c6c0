package models

import (
	"time"
)

type Post struct {
	PostID    string    `json:"id" db:"post_id"`
	CreatorID string    `json:"creatorId" db:"creator_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ImagePath string    `json:"imagePath" db:"image_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PostPage is one window of the post collection plus the total count of all
// persisted posts, so callers can compute the page count themselves.
type PostPage struct {
	Posts      []Post `json:"posts"`
	TotalCount int    `json:"totalCount"`
}

// PageRequest selects a window of the collection. Both fields must be
// positive for the window to apply; otherwise the full collection is meant.
type PageRequest struct {
	PageSize  int
	PageIndex int
}

func (p PageRequest) Windowed() bool {
	return p.PageSize > 0 && p.PageIndex > 0
}
