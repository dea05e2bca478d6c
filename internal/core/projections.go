package core

import (
	"time"
)

// Read-side projections returned over the API. Viewer-scoped annotations
// are pointers: nil means "no viewer", not false.

type AuthorSummary struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Username string `json:"username"`
}

type TagSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PostSummary struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CreatedAt     time.Time     `json:"createdAt"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	Author        AuthorSummary `json:"author"`
	Tags          []TagSummary  `json:"tags"`

	Bookmarked *bool `json:"bookmarked,omitempty"`
}

// PostPage is one page of the feed. NextCursor is absent on the last page.
type PostPage struct {
	Posts      []PostSummary `json:"posts"`
	NextCursor *string       `json:"nextCursor,omitempty"`
}

type PostDetail struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Text          string        `json:"text"`
	HTML          string        `json:"html"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	Author        AuthorSummary `json:"author"`
	Tags          []TagSummary  `json:"tags"`

	Liked *bool `json:"liked,omitempty"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Username string `json:"username"`

	Following *bool `json:"following,omitempty"`
}

type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Username  string `json:"username"`
	PostCount int64  `json:"postCount"`
}

type CommentSummary struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    AuthorSummary `json:"author"`
}

type ReadingListItem struct {
	ID   string      `json:"id"`
	Post PostSummary `json:"post"`
}

type ImageResult struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ThumbURL    string `json:"thumbUrl"`
	FullURL     string `json:"fullUrl"`
}

// PostDraft carries everything needed to author a post.
type PostDraft struct {
	Title       string
	Description string
	Text        string
	HTML        string
	TagIDs      []string
}
