package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"chapter/internal/access"
	"chapter/internal/domain/posts"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
)

// listPostsHandler godoc
//
//	@Summary		List blog posts
//	@Description	Drafts and published posts, newest first. Optional ?status=draft|published.
//	@Tags			admin-blog
//	@Produce		json
//	@Param			status	query		string			false	"Filter by status"	Enums(draft, published)
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"posts with pagination"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Router			/admin/blog [get]
func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	var filter posts.ListFilter
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status := posts.Status(s)
		if !status.Valid() {
			app.badRequestResponse(w, r, errors.New("status must be draft or published"))
			return
		}
		filter.Status = &status
	}
	app.listPosts(w, r, filter)
}

// listPublishedPostsHandler godoc
//
//	@Summary		List published posts
//	@Tags			public
//	@Produce		json
//	@Param			tag		query		string			false	"Only posts carrying this tag"
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"posts with pagination"
//	@Router			/posts [get]
func (app *application) listPublishedPostsHandler(w http.ResponseWriter, r *http.Request) {
	published := posts.StatusPublished
	app.listPosts(w, r, posts.ListFilter{
		Status: &published,
		Tag:    strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag"))),
	})
}

func (app *application) listPosts(w http.ResponseWriter, r *http.Request, filter posts.ListFilter) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())

	items, total, err := app.store.Posts.List(ctx, filter, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"posts":      items,
		"pagination": pg,
	})
}

// getPublishedPostHandler godoc
//
//	@Summary		Get a published post
//	@Tags			public
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	posts.Post
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/posts/{slug} [get]
func (app *application) getPublishedPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := app.store.Posts.GetPublishedBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, p)
}

// getPostHandler godoc
//
//	@Summary		Get blog post
//	@Tags			admin-blog
//	@Produce		json
//	@Param			postID	path		int	true	"Post ID"
//	@Success		200		{object}	posts.Post
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/blog/{postID} [get]
func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := app.store.Posts.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, p)
}

// createPostHandler godoc
//
//	@Summary		Create blog post
//	@Description	New posts start as drafts. The slug is derived from the title when omitted.
//	@Tags			admin-blog
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		posts.CreatePostRequest	true	"Post"
//	@Success		201		{object}	posts.Post
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Slug already used"
//	@Router			/admin/blog [post]
func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var payload posts.CreatePostRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := &posts.Post{
		Title:         strings.TrimSpace(payload.Title),
		Slug:          posts.Slugify(payload.Slug),
		Summary:       payload.Summary,
		Body:          payload.Body,
		CoverImageURL: payload.CoverImageURL,
		Tags:          payload.Tags,
	}
	if sess := access.SessionFromContext(r.Context()); sess != nil {
		p.AuthorID = &sess.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Posts.Create(ctx, p); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, p)
}

// updatePostHandler godoc
//
//	@Summary		Update blog post
//	@Description	Only the fields present in the body change.
//	@Tags			admin-blog
//	@Accept			json
//	@Produce		json
//	@Param			postID	path		int						true	"Post ID"
//	@Param			payload	body		posts.UpdatePostRequest	true	"Fields to change"
//	@Success		200		{object}	posts.Post
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Not Found"
//	@Failure		409		{object}	error	"Slug already used"
//	@Router			/admin/blog/{postID} [patch]
func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload posts.UpdatePostRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.Slug != nil {
		slug := posts.Slugify(*payload.Slug)
		if slug == "" {
			app.badRequestResponse(w, r, errors.New("slug must contain letters or digits"))
			return
		}
		payload.Slug = &slug
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := app.store.Posts.Update(ctx, id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, p)
}

// publishPostHandler godoc
//
//	@Summary		Publish blog post
//	@Tags			admin-blog
//	@Produce		json
//	@Param			postID	path		int	true	"Post ID"
//	@Success		200		{object}	posts.Post
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/blog/{postID}/publish [post]
func (app *application) publishPostHandler(w http.ResponseWriter, r *http.Request) {
	app.setPostStatus(w, r, posts.StatusPublished)
}

// unpublishPostHandler godoc
//
//	@Summary		Unpublish blog post
//	@Description	Moves the post back to draft.
//	@Tags			admin-blog
//	@Produce		json
//	@Param			postID	path		int	true	"Post ID"
//	@Success		200		{object}	posts.Post
//	@Failure		404		{object}	error	"Not Found"
//	@Router			/admin/blog/{postID}/unpublish [post]
func (app *application) unpublishPostHandler(w http.ResponseWriter, r *http.Request) {
	app.setPostStatus(w, r, posts.StatusDraft)
}

func (app *application) setPostStatus(w http.ResponseWriter, r *http.Request, status posts.Status) {
	id, err := params.ParseID(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := app.store.Posts.SetStatus(ctx, id, status)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.logger.Infow("post status changed", "post_id", p.ID, "status", string(p.Status))
	app.jsonResponse(w, http.StatusOK, p)
}

// deletePostHandler godoc
//
//	@Summary		Delete blog post
//	@Tags			admin-blog
//	@Param			postID	path	int	true	"Post ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/blog/{postID} [delete]
func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "postID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Posts.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
