package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"postboard/internal/models"
	"postboard/internal/service"
)

type postBody struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	// Pagination parameters; both must be present and positive for a
	// window to apply, otherwise the full collection is returned.
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	pageIndex, _ := strconv.Atoi(r.URL.Query().Get("pageIndex"))

	page, err := h.PostService.List(r.Context(), models.PageRequest{
		PageSize:  pageSize,
		PageIndex: pageIndex,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, page, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFrom(r)
	if !ok {
		writeError(w, "no post found", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Get(r.Context(), postID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	body, upload, cleanup, err := h.readPostBody(w, r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	if err := h.Validate.Struct(body); err != nil {
		writeError(w, "title and content are required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Create(r.Context(), service.CreatePostRequest{
		Title:   body.Title,
		Content: body.Content,
		Upload:  upload,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFrom(r)
	if !ok {
		writeError(w, "no post found", http.StatusBadRequest)
		return
	}

	body, upload, cleanup, err := h.readPostBody(w, r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	if err := h.Validate.Struct(body); err != nil {
		writeError(w, "title and content are required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Update(r.Context(), postID, service.UpdatePostRequest{
		Title:   body.Title,
		Content: body.Content,
		Upload:  upload,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDFrom(r)
	if !ok {
		writeError(w, "no post found", http.StatusBadRequest)
		return
	}

	if err := h.PostService.Delete(r.Context(), postID); err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Post deleted"}, http.StatusCreated)
}

// postIDFrom extracts the path id. The literal "null" is a wire-level
// sentinel the original client sends for an absent id; it is normalized
// to absence here and never reaches the service layer.
func postIDFrom(r *http.Request) (string, bool) {
	postID := mux.Vars(r)["id"]
	if postID == "" || postID == "null" {
		return "", false
	}
	return postID, true
}

// readPostBody decodes title/content plus an optional image part. The
// client sends multipart/form-data when an image rides along and plain
// JSON otherwise; both are accepted on the same routes.
func (h *Handlers) readPostBody(w http.ResponseWriter, r *http.Request) (postBody, *service.Upload, func(), error) {
	noop := func() {}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			return postBody{}, nil, noop, errBadBody
		}

		body := postBody{
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
		}

		file, header, err := r.FormFile("image")
		if err == http.ErrMissingFile {
			return body, nil, noop, nil
		}
		if err != nil {
			return postBody{}, nil, noop, errBadBody
		}

		upload := &service.Upload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
			Size:        header.Size,
		}
		return body, upload, func() { file.Close() }, nil
	}

	var body postBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return postBody{}, nil, noop, errBadBody
	}
	return body, nil, noop, nil
}

type bodyError string

func (e bodyError) Error() string { return string(e) }

const errBadBody = bodyError("invalid request body")
