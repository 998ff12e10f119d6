package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// PostFilter narrows post listings. Status "all" disables the status filter.
type PostFilter struct {
	Status   string
	Category string // category slug
	Search   string // matched against title, content, excerpt
	Popular  bool   // order by views instead of pinned/recency
	Limit    int
	Offset   int
}

// ReactionCount is one aggregated row of a post's reaction tally.
type ReactionCount struct {
	Type  string `bun:"reaction_type" json:"reaction_type"`
	Count int    `bun:"count" json:"count"`
}

var slugStrip = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// Slugify turns a title into a URL slug.
func Slugify(title string) string {
	return strings.ToLower(strings.Trim(slugStrip.ReplaceAllString(title, "-"), "-"))
}

// Blog manages categories, posts, comments, and reactions.
type Blog struct {
	db *bun.DB
}

func NewBlog(db *bun.DB) *Blog {
	return &Blog{db: db}
}

// ListCategories returns every category with its published-post count.
func (b *Blog) ListCategories(ctx context.Context) ([]*BlogCategory, error) {
	var categories []*BlogCategory
	err := b.db.NewSelect().Model(&categories).
		ColumnExpr("bc.*").
		ColumnExpr("(SELECT COUNT(*) FROM blog_posts p WHERE p.category_id = bc.category_id AND p.status = ?) AS post_count",
			PostPublished).
		Order("category_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list categories")
	}
	return categories, nil
}

func (b *Blog) postQuery(posts *[]*BlogPost) *bun.SelectQuery {
	return b.db.NewSelect().Model(posts).
		Relation("Category").
		Relation("Author").
		ColumnExpr("p.*").
		ColumnExpr("(SELECT COUNT(*) FROM blog_comments WHERE post_id = p.post_id AND deleted_at IS NULL) AS comment_count").
		ColumnExpr("(SELECT COUNT(*) FROM blog_reactions WHERE post_id = p.post_id) AS reaction_count")
}

// ListPosts returns the filtered page of posts and the total match count.
func (b *Blog) ListPosts(ctx context.Context, filter PostFilter) ([]*BlogPost, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	var posts []*BlogPost
	q := b.postQuery(&posts)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("p.status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("p.category_id IN (SELECT category_id FROM blog_categories WHERE category_slug = ?)", filter.Category)
	}
	if filter.Search != "" {
		needle := "%" + filter.Search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereOr("p.title LIKE ?", needle).
				WhereOr("p.content LIKE ?", needle).
				WhereOr("p.excerpt LIKE ?", needle)
		})
	}

	if filter.Popular {
		q = q.Order("p.view_count DESC", "p.published_at DESC")
	} else {
		q = q.Order("p.is_pinned DESC", "p.published_at DESC")
	}

	total, err := q.Limit(filter.Limit).Offset(filter.Offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, internal(err, "failed to list posts")
	}
	return posts, total, nil
}

// GetPost returns one post by id and bumps its view count.
func (b *Blog) GetPost(ctx context.Context, id int64) (*BlogPost, error) {
	var posts []*BlogPost
	err := b.postQuery(&posts).
		Where("p.post_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to query post")
	}
	if len(posts) == 0 {
		return nil, notFound("post not found")
	}

	b.bumpViews(ctx, posts[0].ID)
	return posts[0], nil
}

// GetPostBySlug returns one published post by slug and bumps its view count.
func (b *Blog) GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	var posts []*BlogPost
	err := b.postQuery(&posts).
		Where("p.slug = ?", slug).
		Where("p.status = ?", PostPublished).
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to query post")
	}
	if len(posts) == 0 {
		return nil, notFound("post not found")
	}

	b.bumpViews(ctx, posts[0].ID)
	return posts[0], nil
}

// bumpViews is best effort; a lost increment is not worth failing a read.
func (b *Blog) bumpViews(ctx context.Context, postID int64) {
	b.db.NewUpdate().Model((*BlogPost)(nil)).
		Set("view_count = view_count + 1").
		Where("post_id = ?", postID).
		Exec(ctx)
}

// CreatePost inserts a post. The slug derives from the title; a collision gets
// a timestamp suffix. Publishing stamps published_at.
func (b *Blog) CreatePost(ctx context.Context, post *BlogPost) (*BlogPost, error) {
	post.Slug = Slugify(post.Title)

	taken, err := b.db.NewSelect().Model((*BlogPost)(nil)).
		Where("p.slug = ?", post.Slug).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check slug")
	}
	if taken > 0 {
		post.Slug = fmt.Sprintf("%s-%d", post.Slug, time.Now().Unix())
	}

	if post.Status == "" {
		post.Status = PostDraft
	}
	if post.Status == PostPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if _, err := b.db.NewInsert().Model(post).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create post")
	}
	return post, nil
}

// PostUpdate is a partial update; nil fields are left untouched.
type PostUpdate struct {
	Title         *string
	Content       *string
	Excerpt       *string
	CategoryID    *int64
	FeaturedImage *string
	Status        *string
	Pinned        *bool
}

// UpdatePost applies the set fields of the update. Moving to published stamps
// published_at.
func (b *Blog) UpdatePost(ctx context.Context, id int64, update PostUpdate) error {
	q := b.db.NewUpdate().Model((*BlogPost)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("p.post_id = ?", id)

	touched := false
	if update.Title != nil {
		q = q.Set("title = ?", *update.Title)
		touched = true
	}
	if update.Content != nil {
		q = q.Set("content = ?", *update.Content)
		touched = true
	}
	if update.Excerpt != nil {
		q = q.Set("excerpt = ?", *update.Excerpt)
		touched = true
	}
	if update.CategoryID != nil {
		q = q.Set("category_id = ?", *update.CategoryID)
		touched = true
	}
	if update.FeaturedImage != nil {
		q = q.Set("featured_image = ?", *update.FeaturedImage)
		touched = true
	}
	if update.Status != nil {
		q = q.Set("status = ?", *update.Status)
		if *update.Status == PostPublished {
			q = q.Set("published_at = ?", time.Now())
		}
		touched = true
	}
	if update.Pinned != nil {
		q = q.Set("is_pinned = ?", *update.Pinned)
		touched = true
	}

	if !touched {
		return conflict("no fields to update")
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return internal(err, "failed to update post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("post not found")
	}
	return nil
}

// DeletePost removes the post permanently.
func (b *Blog) DeletePost(ctx context.Context, id int64) error {
	res, err := b.db.NewDelete().Model((*BlogPost)(nil)).
		Where("p.post_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("post not found")
	}
	return nil
}

// ListComments returns the post's live comments threaded: top-level comments
// in creation order, each carrying its replies.
func (b *Blog) ListComments(ctx context.Context, postID int64) ([]*BlogComment, error) {
	var all []*BlogComment
	err := b.db.NewSelect().Model(&all).
		Relation("User").
		Where("c.post_id = ?", postID).
		Order("c.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, internal(err, "failed to list comments")
	}

	byID := make(map[int64]*BlogComment, len(all))
	var roots []*BlogComment
	for _, comment := range all {
		if comment.ParentID == nil {
			comment.Replies = []*BlogComment{}
			byID[comment.ID] = comment
			roots = append(roots, comment)
		}
	}
	for _, comment := range all {
		if comment.ParentID == nil {
			continue
		}
		if parent, ok := byID[*comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, comment)
		}
	}

	return roots, nil
}

// CreateComment adds a comment or reply.
func (b *Blog) CreateComment(ctx context.Context, comment *BlogComment) (*BlogComment, error) {
	if _, err := b.db.NewInsert().Model(comment).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create comment")
	}
	return comment, nil
}

// GetComment returns a live comment.
func (b *Blog) GetComment(ctx context.Context, id int64) (*BlogComment, error) {
	comment := new(BlogComment)
	err := b.db.NewSelect().Model(comment).
		Where("c.comment_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("comment not found")
		}
		return nil, internal(err, "failed to query comment")
	}
	return comment, nil
}

// UpdateComment rewrites the comment text.
func (b *Blog) UpdateComment(ctx context.Context, id int64, text string) error {
	res, err := b.db.NewUpdate().Model((*BlogComment)(nil)).
		Set("comment_text = ?", text).
		Where("c.comment_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to update comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("comment not found")
	}
	return nil
}

// SoftDeleteComment hides the comment; replies keep their parent link.
func (b *Blog) SoftDeleteComment(ctx context.Context, id int64) error {
	res, err := b.db.NewUpdate().Model((*BlogComment)(nil)).
		Set("deleted_at = ?", time.Now()).
		Where("c.comment_id = ?", id).
		Exec(ctx)
	if err != nil {
		return internal(err, "failed to delete comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("comment not found")
	}
	return nil
}

// Reactions returns the post's aggregated reaction counts plus the requesting
// user's own reaction, if any.
func (b *Blog) Reactions(ctx context.Context, postID, userID int64) ([]ReactionCount, string, error) {
	var counts []ReactionCount
	err := b.db.NewSelect().Model((*BlogReaction)(nil)).
		ColumnExpr("reaction_type").
		ColumnExpr("COUNT(*) AS count").
		Where("post_id = ?", postID).
		GroupExpr("reaction_type").
		Scan(ctx, &counts)
	if err != nil {
		return nil, "", internal(err, "failed to list reactions")
	}

	var own string
	err = b.db.NewSelect().Model((*BlogReaction)(nil)).
		Column("reaction_type").
		Where("post_id = ?", postID).
		Where("user_id = ?", userID).
		Scan(ctx, &own)
	if err != nil && !isNoRows(err) {
		return nil, "", internal(err, "failed to query user reaction")
	}

	return counts, own, nil
}

// React records the user's reaction to a post, replacing any previous one.
func (b *Blog) React(ctx context.Context, postID, userID int64, reactionType string) error {
	valid := false
	for _, t := range ValidReactions {
		if t == reactionType {
			valid = true
			break
		}
	}
	if !valid {
		return conflict("invalid reaction type")
	}

	existing, err := b.db.NewSelect().Model((*BlogReaction)(nil)).
		Where("post_id = ?", postID).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return internal(err, "failed to check reaction")
	}

	if existing > 0 {
		_, err = b.db.NewUpdate().Model((*BlogReaction)(nil)).
			Set("reaction_type = ?", reactionType).
			Where("post_id = ?", postID).
			Where("user_id = ?", userID).
			Exec(ctx)
	} else {
		_, err = b.db.NewInsert().
			Model(&BlogReaction{PostID: postID, UserID: userID, Type: reactionType}).
			Exec(ctx)
	}
	if err != nil {
		return internal(err, "failed to save reaction")
	}
	return nil
}

// RemoveReaction clears the user's reaction; removing a missing reaction is
// not an error.
func (b *Blog) RemoveReaction(ctx context.Context, postID, userID int64) error {
	if _, err := b.db.NewDelete().Model((*BlogReaction)(nil)).
		Where("post_id = ?", postID).
		Where("user_id = ?", userID).
		Exec(ctx); err != nil {
		return internal(err, "failed to remove reaction")
	}
	return nil
}
