package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/ogcamping/console/internal/metrics"
	"github.com/ogcamping/console/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	// sessions
	router.HandlerFunc(http.MethodPost, "/v1/sessions", app.openSessionHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/sessions", app.requireSession(app.closeSessionHandler))

	// public blogs
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.listPublicBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getPublicBlogHandler)

	// staff console
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return app.requirePermission(h, userservice.PermissionWriteBlog)
	}
	router.HandlerFunc(http.MethodGet, "/v1/staff/blogs", write(app.listStaffBlogsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/staff/blogs", write(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/staff/blogs/:id", write(app.getStaffBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/staff/blogs/:id", write(app.editBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/staff/blogs/:id", write(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/staff/blogs/:id/submit", write(app.submitBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/staff/notifications", write(app.listStaffNotificationsHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/staff/notifications/:id", write(app.acknowledgeStaffNotificationHandler))

	// admin console
	review := func(h http.HandlerFunc) http.HandlerFunc {
		return app.requirePermission(h, userservice.PermissionReviewBlog)
	}
	router.HandlerFunc(http.MethodGet, "/v1/admin/blogs", review(app.listAdminBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/blogs/:id", review(app.getAdminBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/blogs/:id/publish", review(app.publishBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/blogs/:id/unpublish", review(app.unpublishBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/admin/blogs/:id/reject", review(app.rejectBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/notifications", review(app.listAdminNotificationsHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/notifications/:id", review(app.acknowledgeAdminNotificationHandler))

	// cart
	router.HandlerFunc(http.MethodGet, "/v1/cart", app.getCartHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/cart", app.clearCartHandler)
	router.HandlerFunc(http.MethodPost, "/v1/cart/items", app.addCartItemHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/cart/items/:id", app.updateCartItemHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/cart/items/:id", app.removeCartItemHandler)

	// chat
	router.HandlerFunc(http.MethodGet, "/v1/chat", app.chatHistoryHandler)
	router.HandlerFunc(http.MethodPost, "/v1/chat", app.askChatHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/chat", app.resetChatHandler)

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router)))))
}
