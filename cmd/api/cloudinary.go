package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"chapter/internal/access"
	"chapter/internal/domain/uploads"
	"chapter/internal/media"
	"chapter/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const uploadFolder = "chapter"

// listUploadsHandler godoc
//
//	@Summary		List uploads
//	@Tags			admin-uploads
//	@Produce		json
//	@Param			page	query		int				false	"Page number (default: 1)"
//	@Param			limit	query		int				false	"Items per page (default: 12)"
//	@Success		200		{object}	map[string]any	"uploads with pagination"
//	@Router			/admin/uploads [get]
func (app *application) listUploadsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pg := params.ParsePagination(r.URL.Query())

	items, total, err := app.store.Uploads.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pg.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"uploads":    items,
		"pagination": pg,
	})
}

// createUploadHandler godoc
//
//	@Summary		Upload a file
//	@Description	Stores an image or PDF of at most 10MB on Cloudinary.
//	@Tags			admin-uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"jpeg, png, gif, webp or pdf"
//	@Success		201		{object}	uploads.Upload
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/admin/uploads [post]
func (app *application) createUploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("file must be at most %d MB", media.MaxUploadBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("missing form field \"file\""))
		return
	}
	defer file.Close()

	if header.Size > media.MaxUploadBytes {
		app.badRequestResponse(w, r, fmt.Errorf("file must be at most %d MB", media.MaxUploadBytes>>20))
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		app.badRequestResponse(w, r, errors.New("could not read file"))
		return
	}
	head = head[:n]

	contentType, err := media.SniffContentType(head)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	publicID := "upload_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	asset, err := app.media.Upload(ctx, io.MultiReader(bytes.NewReader(head), file), uploadFolder, publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	u := &uploads.Upload{
		PublicID:    asset.PublicID,
		URL:         asset.URL,
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType,
		Bytes:       header.Size,
	}
	if sess := access.SessionFromContext(r.Context()); sess != nil {
		u.UploadedBy = &sess.UserID
	}

	if err := app.store.Uploads.Create(ctx, u); err != nil {
		// the asset is orphaned without its row
		if derr := app.media.Destroy(context.Background(), asset.PublicID); derr != nil {
			app.logger.Errorw("error deleting orphaned asset", "public_id", asset.PublicID, "error", derr.Error())
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, u)
}

// deleteUploadHandler godoc
//
//	@Summary		Delete upload
//	@Description	Destroys the Cloudinary asset, then the record.
//	@Tags			admin-uploads
//	@Param			uploadID	path	int	true	"Upload ID"
//	@Success		204
//	@Failure		404	{object}	error	"Not Found"
//	@Router			/admin/uploads/{uploadID} [delete]
func (app *application) deleteUploadHandler(w http.ResponseWriter, r *http.Request) {
	id, err := params.ParseID(chi.URLParam(r, "uploadID"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	u, err := app.store.Uploads.GetByID(ctx, id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	publicID := u.PublicID
	if publicID == "" {
		if publicID, err = media.ExtractPublicID(u.URL); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.media.Destroy(ctx, publicID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Uploads.Delete(ctx, id); err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
