package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"go.uber.org/zap"
)

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *communityRepository {
	return &communityRepository{db: db}
}

const postSelect = `
	SELECT p.id, p.user_id, p.pet_id, p.content, p.created_at, p.updated_at,
	       ` + userColumns + `,
	       (SELECT COUNT(*) FROM reactions r WHERE r.post_id = p.id) AS reaction_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.user_id`

func scanPost(row rowScanner) (*model.Post, error) {
	var post model.Post
	var user model.User
	err := row.Scan(
		&post.ID, &post.UserID, &post.PetID, &post.Content, &post.CreatedAt, &post.UpdatedAt,
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL, &user.Bio,
		&user.Role, &user.VerificationLevel, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt,
		&post.ReactionCount, &post.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	post.User = &user
	return &post, nil
}

func (r *communityRepository) CreatePost(ctx context.Context, post *model.Post, images []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO posts (user_id, pet_id, content, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())`,
			post.UserID, post.PetID, post.Content)
		if err != nil {
			util.Logger.Error("创建帖子失败", zap.Error(err))
			return err
		}
		postID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		post.ID = int(postID)

		for _, imageURL := range images {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO post_images (post_id, image_url, created_at) VALUES (?, ?, NOW())`,
				postID, imageURL); err != nil {
				util.Logger.Error("插入帖子图片失败", zap.Error(err))
				return err
			}
		}
		post.Images = images
		util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
		return nil
	})
}

func (r *communityRepository) GetPostByID(ctx context.Context, id int) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachImages(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *communityRepository) UpdatePost(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET content = ?, pet_id = ?, updated_at = NOW() WHERE id = ?`,
		post.Content, post.PetID, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
	}
	return err
}

func (r *communityRepository) DeletePost(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

func (r *communityRepository) CountPosts(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total)
	return total, err
}

func (r *communityRepository) ListFeedCandidates(ctx context.Context, offset, limit int) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		postSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	if err := r.attachImages(ctx, posts); err != nil {
		return nil, err
	}
	if err := r.attachFollowers(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachFollowers 为每个作者加载粉丝ID集合
func (r *communityRepository) attachFollowers(ctx context.Context, posts []*model.Post) error {
	authorIDs := make([]int, 0, len(posts))
	seen := make(map[int]bool)
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	marks, args := placeholders(authorIDs)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT follower_id, followed_id FROM follows WHERE followed_id IN (%s)`, marks), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	followers := make(map[int][]int)
	for rows.Next() {
		var followerID, followedID int
		if err := rows.Scan(&followerID, &followedID); err != nil {
			return err
		}
		followers[followedID] = append(followers[followedID], followerID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range posts {
		if p.User != nil {
			p.User.FollowerIDs = followers[p.UserID]
		}
	}
	return nil
}

func (r *communityRepository) attachImages(ctx context.Context, posts []*model.Post) error {
	ids := make([]int, len(posts))
	byID := make(map[int]*model.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Images = []string{}
	}

	marks, args := placeholders(ids)
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT post_id, image_url FROM post_images WHERE post_id IN (%s) ORDER BY id`, marks), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int
		var imageURL string
		if err := rows.Scan(&postID, &imageURL); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Images = append(p.Images, imageURL)
		}
	}
	return rows.Err()
}

func (r *communityRepository) GetUserPosts(ctx context.Context, userID, page, pageSize int) ([]*model.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		postSelect+` WHERE p.user_id = ? ORDER BY p.created_at DESC LIMIT ? OFFSET ?`,
		userID, pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(posts) > 0 {
		if err := r.attachImages(ctx, posts); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

func (r *communityRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (user_id, post_id, content, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())`,
		comment.UserID, comment.PostID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

const commentSelect = `
	SELECT c.id, c.user_id, c.post_id, c.content, c.created_at, c.updated_at, ` + userColumns + `
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (*model.Comment, error) {
	var comment model.Comment
	var user model.User
	err := row.Scan(
		&comment.ID, &comment.UserID, &comment.PostID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL, &user.Bio,
		&user.Role, &user.VerificationLevel, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	comment.User = &user
	return &comment, nil
}

func (r *communityRepository) GetCommentByID(ctx context.Context, id int) (*model.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return comment, nil
}

func (r *communityRepository) GetCommentsByPostID(ctx context.Context, postID, page, pageSize int) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.post_id = ? ORDER BY c.created_at DESC LIMIT ? OFFSET ?`,
		postID, pageSize, offsetOf(page, pageSize))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *communityRepository) DeleteComment(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
	}
	return err
}

// UpsertReaction 每个用户对同一帖子只保留一个表情
func (r *communityRepository) UpsertReaction(ctx context.Context, reaction *model.Reaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reactions (user_id, post_id, type, created_at) VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE type = VALUES(type)`,
		reaction.UserID, reaction.PostID, reaction.Type)
	return err
}

func (r *communityRepository) DeleteReaction(ctx context.Context, userID, postID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE user_id = ? AND post_id = ?`, userID, postID)
	return err
}

func (r *communityRepository) CreateFollow(ctx context.Context, follow *model.Follow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE follower_id = follower_id`,
		follow.FollowerID, follow.FollowedID)
	return err
}

func (r *communityRepository) DeleteFollow(ctx context.Context, followerID, followedID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	return err
}

func (r *communityRepository) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)`,
		followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *communityRepository) listUsers(ctx context.Context, query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *communityRepository) GetFollowers(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	return r.listUsers(ctx, `
		SELECT `+userColumns+`
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = ?
		ORDER BY f.created_at DESC LIMIT ? OFFSET ?`,
		userID, pageSize, offsetOf(page, pageSize))
}

func (r *communityRepository) GetFollowing(ctx context.Context, userID, page, pageSize int) ([]*model.User, error) {
	return r.listUsers(ctx, `
		SELECT `+userColumns+`
		FROM follows f JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC LIMIT ? OFFSET ?`,
		userID, pageSize, offsetOf(page, pageSize))
}
