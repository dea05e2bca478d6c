package core

import (
	"time"
)

// User is a platform member. Account provisioning happens in the external
// identity provider; this table only mirrors what the feed needs.
type User struct {
	ID       string `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex"`
	Name     string
	Image    string

	CreatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// Post is an authored article. The slug is derived from the title once, at
// creation, and never re-derived on edit.
type Post struct {
	ID            string `gorm:"primaryKey"`
	Slug          string `gorm:"uniqueIndex"`
	Title         string
	Description   string
	Text          string
	HTML          string `gorm:"column:html"`
	FeaturedImage string

	AuthorID string
	Author   User  `gorm:"foreignKey:AuthorID"`
	Tags     []Tag `gorm:"many2many:post_tags"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string {
	return "posts"
}

type Tag struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
	Slug string
}

func (Tag) TableName() string {
	return "tags"
}

// Like records that a user liked a post, at most once per pair.
type Like struct {
	ID     string `gorm:"primaryKey"`
	UserID string `gorm:"uniqueIndex:idx_likes_user_post"`
	PostID string `gorm:"uniqueIndex:idx_likes_user_post"`

	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}

// Bookmark records that a user saved a post, at most once per pair.
// Ordered by CreatedAt for the reading list.
type Bookmark struct {
	ID     string `gorm:"primaryKey"`
	UserID string `gorm:"uniqueIndex:idx_bookmarks_user_post"`
	PostID string `gorm:"uniqueIndex:idx_bookmarks_user_post"`
	Post   Post   `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

type Comment struct {
	ID     string `gorm:"primaryKey"`
	PostID string
	UserID string
	User   User `gorm:"foreignKey:UserID"`
	Text   string

	CreatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}

// Follow is a directed edge in the follow graph: follower -> followee.
// The relation is asymmetric, one row per direction.
type Follow struct {
	ID         string `gorm:"primaryKey"`
	FollowerID string `gorm:"uniqueIndex:idx_follows_pair"`
	FolloweeID string `gorm:"uniqueIndex:idx_follows_pair"`

	CreatedAt time.Time
}

func (Follow) TableName() string {
	return "follows"
}
