package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// PostRequest creates a blog post.
type PostRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	CategoryID    *int64 `json:"category_id"`
	FeaturedImage string `json:"featured_image"`
	Status        string `json:"status"`
	Pinned        bool   `json:"is_pinned"`
}

// Validate will run validation rules
func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Status, validation.In(store.PostDraft, store.PostPublished)),
	)
}

// PostUpdateRequest is a partial update; absent fields stay untouched.
type PostUpdateRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	CategoryID    *int64  `json:"category_id"`
	FeaturedImage *string `json:"featured_image"`
	Status        *string `json:"status"`
	Pinned        *bool   `json:"is_pinned"`
}

// Validate will run validation rules
func (r PostUpdateRequest) Validate() error {
	if r.Status == nil {
		return nil
	}
	return validation.Validate(*r.Status, validation.In(store.PostDraft, store.PostPublished))
}

// CommentRequest creates or edits a comment.
type CommentRequest struct {
	ParentID *int64 `json:"parent_comment_id"`
	Text     string `json:"comment_text"`
}

// Validate will run validation rules
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// ReactionRequest sets the caller's reaction on a post.
type ReactionRequest struct {
	Type string `json:"reaction_type"`
}

// Validate will run validation rules
func (r ReactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required),
	)
}

// Blog serves the department news section. Reads are public; post writes are
// admin only, comments and reactions need a login.
type Blog struct {
	blog   *store.Blog
	gate   *auth.Gate
	audit  *store.AuditLogs
	logger auth.Logger
}

func NewBlog(blog *store.Blog, gate *auth.Gate, audit *store.AuditLogs, logger auth.Logger) *Blog {
	return &Blog{blog: blog, gate: gate, audit: audit, logger: logger}
}

func (h *Blog) Register(r fiber.Router) {
	authed := h.gate.RequireAuthenticated()
	admin := h.gate.RequireRole(auth.RoleAdmin)

	r.Get("/blog/categories", h.Categories)

	r.Get("/blog/posts", h.ListPosts)
	r.Get("/blog/posts/slug/:slug", h.GetPostBySlug)
	r.Get("/blog/posts/:id", h.GetPost)
	r.Post("/blog/posts", admin, h.CreatePost)
	r.Put("/blog/posts/:id", admin, h.UpdatePost)
	r.Delete("/blog/posts/:id", admin, h.DeletePost)

	r.Get("/blog/posts/:id/comments", h.ListComments)
	r.Post("/blog/posts/:id/comments", authed, h.CreateComment)
	r.Put("/blog/comments/:id", authed, h.UpdateComment)
	r.Delete("/blog/comments/:id", authed, h.DeleteComment)

	r.Get("/blog/posts/:id/reactions", h.Reactions)
	r.Post("/blog/posts/:id/reactions", authed, h.React)
	r.Delete("/blog/posts/:id/reactions", authed, h.RemoveReaction)
}

func (h *Blog) Categories(c *fiber.Ctx) error {
	categories, err := h.blog.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Categories retrieved", categories)
}

// ListPosts returns a page of posts. Anonymous callers only ever see published
// posts; the status filter is honored for admins.
func (h *Blog) ListPosts(c *fiber.Ctx) error {
	filter := store.PostFilter{
		Status:   store.PostPublished,
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Popular:  c.QueryBool("popular"),
		Limit:    c.QueryInt("limit"),
		Offset:   c.QueryInt("offset"),
	}

	if p, ok := h.gate.CurrentPrincipal(c); ok && p.IsAdmin() {
		if status := c.Query("status"); status != "" {
			filter.Status = status
		}
	}

	posts, total, err := h.blog.ListPosts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Posts retrieved", fiber.Map{
		"posts": posts,
		"total": total,
	})
}

func (h *Blog) GetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	post, err := h.blog.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	// drafts are only visible to admins
	if post.Status != store.PostPublished {
		if p, ok := h.gate.CurrentPrincipal(c); !ok || !p.IsAdmin() {
			return respondFail(c, fiber.StatusNotFound, "post not found")
		}
	}
	return respondOK(c, "Post retrieved", post)
}

func (h *Blog) GetPostBySlug(c *fiber.Ctx) error {
	post, err := h.blog.GetPostBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Post retrieved", post)
}

func (h *Blog) CreatePost(c *fiber.Ctx) error {
	payload := new(PostRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	created, err := h.blog.CreatePost(c.UserContext(), &store.BlogPost{
		Title:         payload.Title,
		Content:       payload.Content,
		Excerpt:       payload.Excerpt,
		CategoryID:    payload.CategoryID,
		FeaturedImage: payload.FeaturedImage,
		Status:        payload.Status,
		Pinned:        payload.Pinned,
		AuthorID:      p.UserID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "blog_posts", created.ID)
	return respondCreated(c, "Post created successfully", created)
}

func (h *Blog) UpdatePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(PostUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	err = h.blog.UpdatePost(c.UserContext(), id, store.PostUpdate{
		Title:         payload.Title,
		Content:       payload.Content,
		Excerpt:       payload.Excerpt,
		CategoryID:    payload.CategoryID,
		FeaturedImage: payload.FeaturedImage,
		Status:        payload.Status,
		Pinned:        payload.Pinned,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionUpdate, "blog_posts", id)
	return respondOK(c, "Post updated successfully", nil)
}

func (h *Blog) DeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.blog.DeletePost(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "blog_posts", id)
	return respondOK(c, "Post deleted successfully", nil)
}

func (h *Blog) ListComments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	comments, err := h.blog.ListComments(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Comments retrieved", comments)
}

func (h *Blog) CreateComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(CommentRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	created, err := h.blog.CreateComment(c.UserContext(), &store.BlogComment{
		PostID:   id,
		UserID:   p.UserID,
		ParentID: payload.ParentID,
		Text:     payload.Text,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondCreated(c, "Comment added successfully", created)
}

// UpdateComment lets the comment's author or an admin edit it.
func (h *Blog) UpdateComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(CommentRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	comment, err := h.blog.GetComment(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if comment.UserID != p.UserID && !p.IsAdmin() {
		return respondFail(c, fiber.StatusForbidden, "You can only edit your own comments")
	}

	if err := h.blog.UpdateComment(c.UserContext(), id, payload.Text); err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Comment updated successfully", nil)
}

// DeleteComment soft-deletes; same ownership rule as UpdateComment.
func (h *Blog) DeleteComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	comment, err := h.blog.GetComment(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if comment.UserID != p.UserID && !p.IsAdmin() {
		return respondFail(c, fiber.StatusForbidden, "You can only delete your own comments")
	}

	if err := h.blog.SoftDeleteComment(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Comment deleted successfully", nil)
}

// Reactions returns the tally plus the caller's own reaction when logged in.
func (h *Blog) Reactions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var userID int64
	if p, ok := h.gate.CurrentPrincipal(c); ok {
		userID = p.UserID
	}

	counts, own, err := h.blog.Reactions(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Reactions retrieved", fiber.Map{
		"reactions":     counts,
		"user_reaction": own,
	})
}

func (h *Blog) React(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(ReactionRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	if err := h.blog.React(c.UserContext(), id, p.UserID, payload.Type); err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Reaction saved", nil)
}

func (h *Blog) RemoveReaction(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if err := h.blog.RemoveReaction(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Reaction removed", nil)
}
