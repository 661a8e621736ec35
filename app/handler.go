package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/svidalco/mdxblog/internal/blogservice"
	"github.com/svidalco/mdxblog/internal/common"
	"github.com/svidalco/mdxblog/internal/userservice"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var input signupRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		app.badRequestErrorResponse(w, r, errors.New("missing name, email or password"))
		return
	}

	user, err := app.userService.CreateUser(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.conflictErrorResponse(w, r, "a user with this email address already exists")
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		app.badRequestErrorResponse(w, r, errors.New("missing email or password"))
		return
	}

	user, err := app.userService.VerifyCredentials(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	token, err := app.tokens.Issue(user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// authCheckHandler returns the account behind a valid token.
func (app *application) authCheckHandler(w http.ResponseWriter, r *http.Request) {
	claims := app.getClaimsContext(r)

	user, err := app.userService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	claims := app.getClaimsContext(r)
	if err := claims.AuthorizeSelf(id); err != nil {
		app.forbiddenErrorResponse(w, r)
		return
	}

	user, err := app.userService.GetUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	claims := app.getClaimsContext(r)
	if err := claims.AuthorizeSelf(id); err != nil {
		app.forbiddenErrorResponse(w, r)
		return
	}

	deleted, err := app.userService.DeleteUser(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !deleted {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "user deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) clearUsersHandler(w http.ResponseWriter, r *http.Request) {
	_, err := app.userService.ClearAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "all users deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// postResponse is the wire shape of a post with its artifacts resolved.
// Missing artifacts surface as null content, never as request failures.
type postResponse struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Thumbnail       string  `json:"thumbnail"`
	ThumbnailBase64 *string `json:"thumbnail_base64"`
	ThumbnailURL    *string `json:"thumbnail_url"`
	Content         *string `json:"content"`
	Author          *string `json:"author,omitempty"`
	CreatedAt       *string `json:"created_at,omitempty"`
}

func (app *application) resolvePost(r *http.Request, p *blogservice.Post) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Thumbnail: p.ThumbnailPath,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
	}

	if body, ok := app.blogService.ResolveBody(p); ok {
		// Artifacts are stored verbatim; script stripping happens here,
		// on the way out.
		sanitized := blogservice.SanitizeBody(body)
		resp.Content = &sanitized
	}

	if thumb, ok := app.blogService.ResolveThumbnail(p); ok {
		ext := strings.TrimPrefix(path.Ext(p.ThumbnailPath), ".")
		if ext == "" {
			ext = "png"
		}

		dataURL := fmt.Sprintf("data:image/%s;base64,%s", ext, base64.StdEncoding.EncodeToString(thumb))
		resp.ThumbnailBase64 = &dataURL

		url := app.mediaURL(r, path.Base(p.ThumbnailPath))
		resp.ThumbnailURL = &url
	}

	return resp
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.blogService.ListPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resolved := make([]postResponse, 0, len(posts))
	for i := range posts {
		resolved = append(resolved, app.resolvePost(r, &posts[i]))
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": resolved}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": app.resolvePost(r, post)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createPostRequest struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	ThumbnailBase64 string  `json:"thumbnail_base64"`
	ThumbnailExt    string  `json:"thumbnail_ext"`
	Author          *string `json:"author"`
	CreatedAt       *string `json:"created_at"`
}

// decodeThumbnail accepts raw base64 or a data URL. Undecodable input yields
// nil, which downgrades to the placeholder image.
func decodeThumbnail(s string) []byte {
	if s == "" {
		return nil
	}

	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}

	return b
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input createPostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		app.badRequestErrorResponse(w, r, errors.New("missing title or content"))
		return
	}

	id, err := app.blogService.CreatePost(r.Context(), &blogservice.CreatePostRequest{
		Title:        input.Title,
		Body:         input.Content,
		Thumbnail:    decodeThumbnail(input.ThumbnailBase64),
		ThumbnailExt: input.ThumbnailExt,
		Author:       input.Author,
		CreatedAt:    input.CreatedAt,
	})
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post_id": id}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updatePostRequest struct {
	Title           string  `json:"title"`
	Content         *string `json:"content"`
	ThumbnailBase64 string  `json:"thumbnail_base64"`
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updatePostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var content *blogservice.UpdateContent
	thumb := decodeThumbnail(input.ThumbnailBase64)
	if input.Content != nil || len(thumb) > 0 {
		content = &blogservice.UpdateContent{
			Body:      input.Content,
			Thumbnail: thumb,
		}
	}

	err = app.blogService.UpdatePost(r.Context(), id, input.Title, content)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	deleted, err := app.blogService.DeletePost(r.Context(), id)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if !deleted {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type seedPostsRequest struct {
	Count int `json:"count"`
}

func (app *application) seedPostsHandler(w http.ResponseWriter, r *http.Request) {
	input := seedPostsRequest{Count: 3}

	// An empty body keeps the default count. The body is read rather than
	// sniffed through ContentLength, which is -1 for chunked requests.
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1_048_576))
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &input); err != nil {
			app.badRequestErrorResponse(w, r, errors.New("request body contains badly-formed JSON"))
			return
		}
	}

	created, err := app.blogService.SeedPosts(r.Context(), input.Count)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"created": created}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) serveMediaHandler(w http.ResponseWriter, r *http.Request) {
	filename := app.readStringParam(r, "filename")

	path, err := app.blogService.MediaPath(filename)
	if err != nil {
		app.badRequestErrorResponse(w, r, errors.New("invalid filename"))
		return
	}

	if _, err := os.Stat(path); err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	http.ServeFile(w, r, path)
}
