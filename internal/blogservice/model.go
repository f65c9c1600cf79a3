package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/cleanblog/internal/common"
)

var (
	ErrDuplicateTitle = fmt.Errorf("%w: a post with this title already exists", common.ErrConflict)
	ErrPostNotFound   = fmt.Errorf("post %w", common.ErrRecordNotFound)
	ErrUserNotFound   = fmt.Errorf("comment author %w", common.ErrRecordNotFound)
)

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func (m *BlogModel) insertPost(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, subtitle, author, date, body, img_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	args := []any{p.Title, p.Subtitle, p.Author, p.Date, p.Body, p.ImgURL}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "posts", "title"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getPost(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT id, title, subtitle, author, date, body, img_url
		FROM posts
		WHERE id = $1`

	var p Post
	err := m.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Subtitle, &p.Author, &p.Date, &p.Body, &p.ImgURL)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	return &p, nil
}

// getPosts returns every post in insertion order.
func (m *BlogModel) getPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT id, title, subtitle, author, date, body, img_url
		FROM posts
		ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Author, &p.Date, &p.Body, &p.ImgURL)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// updatePost overwrites the editable fields. The publish date is kept.
func (m *BlogModel) updatePost(ctx context.Context, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, subtitle = $2, author = $3, body = $4, img_url = $5
		WHERE id = $6
		RETURNING date`

	args := []any{p.Title, p.Subtitle, p.Author, p.Body, p.ImgURL, p.ID}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.Date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrPostNotFound
		case common.IsUniqueViolation(err, "posts", "title"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

// deletePost removes the post and its comments in one transaction.
func (m *BlogModel) deletePost(ctx context.Context, id int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrPostNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}

// getComments returns the comments of a post in creation order, joined with their
// authors.
func (m *BlogModel) getComments(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.text, c.author_id, c.post_id, u.name, u.email
		FROM comments c
		INNER JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.id`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.PostID, &c.AuthorName, &c.AuthorEmail)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// insertComment checks that the author and the post exist before inserting, inside one
// transaction. Foreign key failures from a concurrent delete map to the same errors.
func (m *BlogModel) insertComment(ctx context.Context, c *Comment) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `SELECT name, email FROM users WHERE id = $1`, c.AuthorID).Scan(&c.AuthorName, &c.AuthorEmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrUserNotFound
		default:
			return err
		}
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE id = $1`, c.PostID).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}

	query := `
		INSERT INTO comments (text, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query, c.Text, c.AuthorID, c.PostID).Scan(&c.ID)
	if err != nil {
		switch {
		case common.IsForeignKeyViolation(err):
			return ErrPostNotFound
		default:
			return err
		}
	}

	return tx.Commit()
}

func (m *BlogModel) countPosts(ctx context.Context) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
