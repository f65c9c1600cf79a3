package blogservice

import (
	"database/sql"
	"time"
)

// DateLayout is how a post's publish date is stored and displayed.
const DateLayout = "January 02, 2006"

type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	// Author is free text chosen by whoever writes the post; it is not tied to a user.
	Author string `json:"author"`
	Date   string `json:"date"`
	// Body is stored as HTML with script elements removed.
	Body   string `json:"body"`
	ImgURL string `json:"img_url"`
}

// PostInput carries the editable fields of a post form.
type PostInput struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	ImgURL   string `json:"img_url"`
	Body     string `json:"body"`
}

type Comment struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	AuthorID    int    `json:"author_id"`
	PostID      int    `json:"post_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"-"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m   *BlogModel
	now func() time.Time
}
