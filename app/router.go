package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/auth/signup", app.signupHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.loginHandler)
	router.HandlerFunc(http.MethodGet, "/v1/auth/check", app.requireAuthUser(app.authCheckHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/:id", app.requireAuthUser(app.getUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/users/:id", app.requireAuthUser(app.deleteUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/users", app.requireAdmin(app.clearUsersHandler))

	// blog service
	// Post mutation is deliberately open to anonymous callers; see DESIGN.md.
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.createPostHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts/seed", app.seedPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:id", app.updatePostHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.deletePostHandler)

	router.HandlerFunc(http.MethodGet, "/media/posts/:filename", app.serveMediaHandler)

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
