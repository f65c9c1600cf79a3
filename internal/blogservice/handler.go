package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sushihentaime/cleanblog/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: NewBlogModel(db), now: time.Now}
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.Author = strings.TrimSpace(in.Author)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	in.Body = sanitizeHTML(in.Body)
}

// GetPosts returns all posts, oldest first.
func (s *BlogService) GetPosts(ctx context.Context) ([]Post, error) {
	return s.m.getPosts(ctx)
}

// GetPost returns a post by its ID.
func (s *BlogService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, ErrPostNotFound
	}

	return s.m.getPost(ctx, id)
}

// CreatePost publishes a post dated today. Titles must be unique.
func (s *BlogService) CreatePost(ctx context.Context, in *PostInput) (*Post, error) {
	in.normalize()

	v := common.NewValidator()
	validatePost(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p := Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Author:   in.Author,
		Date:     s.now().Format(DateLayout),
		Body:     in.Body,
		ImgURL:   in.ImgURL,
	}

	err := s.m.insertPost(ctx, &p)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// UpdatePost overwrites every editable field of the post. A missing post is reported
// before the input is validated.
func (s *BlogService) UpdatePost(ctx context.Context, id int, in *PostInput) (*Post, error) {
	_, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	in.normalize()

	v := common.NewValidator()
	validatePost(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p := Post{
		ID:       id,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Author:   in.Author,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
	}

	err = s.m.updatePost(ctx, &p)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// DeletePost deletes a post together with its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int) error {
	if id < 1 {
		return ErrPostNotFound
	}

	return s.m.deletePost(ctx, id)
}

// GetCommentsForPost returns the comments of a post in the order they were written.
func (s *BlogService) GetCommentsForPost(ctx context.Context, postID int) ([]Comment, error) {
	return s.m.getComments(ctx, postID)
}

// CreateComment adds a comment by authorID to postID.
func (s *BlogService) CreateComment(ctx context.Context, text string, authorID, postID int) (*Comment, error) {
	text = sanitizeComment(text)

	v := common.NewValidator()
	validateComment(v, text)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}

	err := s.m.insertComment(ctx, &c)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CountPosts returns how many posts exist.
func (s *BlogService) CountPosts(ctx context.Context) (int, error) {
	return s.m.countPosts(ctx)
}
