// Package routes wires every handler onto the gorilla/mux router. Each
// feature area registers on its own subrouter behind the auth
// middleware; only signup, login and the password flows stay public.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tacticalsync/tacticalsync/internal/handlers"
	"github.com/tacticalsync/tacticalsync/internal/metrics"
	"github.com/tacticalsync/tacticalsync/internal/middleware"
)

// Deps carries the constructed handlers and middleware into
// registration. Everything is injected; nothing here reaches for a
// singleton.
type Deps struct {
	Auth      *middleware.Auth
	AuthH     *handlers.AuthHandler
	ProfileH  *handlers.ProfileHandler
	TeamH     *handlers.TeamHandler
	MeetingH  *handlers.MeetingHandler
	AgendaH   *handlers.AgendaHandler
	ItemsH    *handlers.ItemsHandler
	TemplateH *handlers.TemplateHandler
	CommentH  *handlers.CommentHandler
	WSH       *handlers.WebSocketHandler
}

// List of all route registration functions
var routeModules = []func(*mux.Router, Deps){
	registerAuthRoutes,
	registerProfileRoutes,
	registerTeamRoutes,
	registerMeetingRoutes,
	registerItemRoutes,
	registerTemplateRoutes,
	registerCommentRoutes,
	registerRealtimeRoutes,
}

// Register all routes dynamically
func RegisterAllRoutes(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	for _, register := range routeModules {
		register(router, d)
	}

	return router
}

func registerAuthRoutes(router *mux.Router, d Deps) {
	public := router.PathPrefix("/auth").Subrouter()
	public.Use(middleware.ResponseWrapper)
	public.HandleFunc("/signup", d.AuthH.Signup).Methods(http.MethodPost)
	public.HandleFunc("/login", d.AuthH.Login).Methods(http.MethodPost)
	public.HandleFunc("/verify-email", d.AuthH.VerifyEmail).Methods(http.MethodPost)
	public.HandleFunc("/password-reset/request", d.AuthH.RequestPasswordReset).Methods(http.MethodPost)
	public.HandleFunc("/password-reset/complete", d.AuthH.CompletePasswordReset).Methods(http.MethodPost)

	private := router.PathPrefix("/auth").Subrouter()
	private.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	private.HandleFunc("/me", d.AuthH.Me).Methods(http.MethodGet)
}

func registerProfileRoutes(router *mux.Router, d Deps) {
	r := router.PathPrefix("/profile").Subrouter()
	r.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	r.HandleFunc("", d.ProfileH.Get).Methods(http.MethodGet)
	r.HandleFunc("", d.ProfileH.Update).Methods(http.MethodPut)
}

func registerTeamRoutes(router *mux.Router, d Deps) {
	r := router.PathPrefix("/teams").Subrouter()
	r.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	r.HandleFunc("", d.TeamH.Create).Methods(http.MethodPost)
	r.HandleFunc("", d.TeamH.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/join", d.TeamH.JoinByCode).Methods(http.MethodPost)
	r.HandleFunc("/{teamID}", d.TeamH.Get).Methods(http.MethodGet)
	r.HandleFunc("/{teamID}", d.TeamH.Update).Methods(http.MethodPut)
	r.HandleFunc("/{teamID}", d.TeamH.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/{teamID}/members", d.TeamH.Members).Methods(http.MethodGet)
	r.HandleFunc("/{teamID}/members/{userID}", d.TeamH.UpdateMemberRole).Methods(http.MethodPut)
	r.HandleFunc("/{teamID}/members/{userID}", d.TeamH.RemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/{teamID}/invitations", d.TeamH.Invite).Methods(http.MethodPost)
	r.HandleFunc("/{teamID}/invitations", d.TeamH.Invitations).Methods(http.MethodGet)

	inv := router.PathPrefix("/invitations").Subrouter()
	inv.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	inv.HandleFunc("/accept", d.TeamH.AcceptInvitation).Methods(http.MethodPost)
	inv.HandleFunc("/{invitationID}", d.TeamH.RevokeInvitation).Methods(http.MethodDelete)
}

func registerMeetingRoutes(router *mux.Router, d Deps) {
	teams := router.PathPrefix("/teams/{teamID}/series").Subrouter()
	teams.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	teams.HandleFunc("", d.MeetingH.CreateSeries).Methods(http.MethodPost)
	teams.HandleFunc("", d.MeetingH.ListSeries).Methods(http.MethodGet)

	series := router.PathPrefix("/series/{seriesID}").Subrouter()
	series.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	series.HandleFunc("", d.MeetingH.GetSeries).Methods(http.MethodGet)
	series.HandleFunc("", d.MeetingH.UpdateSeries).Methods(http.MethodPut)
	series.HandleFunc("", d.MeetingH.DeleteSeries).Methods(http.MethodDelete)
	series.HandleFunc("/instances", d.MeetingH.ListInstances).Methods(http.MethodGet)
	series.HandleFunc("/instances/current", d.MeetingH.CurrentInstance).Methods(http.MethodGet)
	series.HandleFunc("/instances/next", d.MeetingH.CreateNextInstance).Methods(http.MethodPost)

	instances := router.PathPrefix("/instances/{instanceID}").Subrouter()
	instances.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	instances.HandleFunc("", d.MeetingH.GetInstance).Methods(http.MethodGet)
}

func registerItemRoutes(router *mux.Router, d Deps) {
	series := router.PathPrefix("/series/{seriesID}").Subrouter()
	series.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	series.HandleFunc("/agenda", d.AgendaH.Create).Methods(http.MethodPost)
	series.HandleFunc("/agenda", d.AgendaH.List).Methods(http.MethodGet)
	series.HandleFunc("/agenda/reorder", d.AgendaH.Reorder).Methods(http.MethodPut)
	series.HandleFunc("/agenda/apply-template", d.AgendaH.ApplyTemplate).Methods(http.MethodPost)
	series.HandleFunc("/action-items", d.ItemsH.CreateActionItem).Methods(http.MethodPost)
	series.HandleFunc("/action-items", d.ItemsH.ListActionItems).Methods(http.MethodGet)
	series.HandleFunc("/action-items/reorder", d.ItemsH.ReorderActionItems).Methods(http.MethodPut)

	agendaItems := router.PathPrefix("/agenda-items/{itemID}").Subrouter()
	agendaItems.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	agendaItems.HandleFunc("", d.AgendaH.Update).Methods(http.MethodPut)
	agendaItems.HandleFunc("", d.AgendaH.Delete).Methods(http.MethodDelete)

	instances := router.PathPrefix("/instances/{instanceID}").Subrouter()
	instances.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	instances.HandleFunc("/priorities", d.ItemsH.CreatePriority).Methods(http.MethodPost)
	instances.HandleFunc("/priorities", d.ItemsH.ListPriorities).Methods(http.MethodGet)
	instances.HandleFunc("/priorities/reorder", d.ItemsH.ReorderPriorities).Methods(http.MethodPut)
	instances.HandleFunc("/topics", d.ItemsH.CreateTopic).Methods(http.MethodPost)
	instances.HandleFunc("/topics", d.ItemsH.ListTopics).Methods(http.MethodGet)
	instances.HandleFunc("/topics/reorder", d.ItemsH.ReorderTopics).Methods(http.MethodPut)

	priorities := router.PathPrefix("/priorities/{priorityID}").Subrouter()
	priorities.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	priorities.HandleFunc("", d.ItemsH.UpdatePriority).Methods(http.MethodPut)
	priorities.HandleFunc("", d.ItemsH.DeletePriority).Methods(http.MethodDelete)

	topics := router.PathPrefix("/topics/{topicID}").Subrouter()
	topics.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	topics.HandleFunc("", d.ItemsH.UpdateTopic).Methods(http.MethodPut)
	topics.HandleFunc("", d.ItemsH.DeleteTopic).Methods(http.MethodDelete)

	actions := router.PathPrefix("/action-items/{itemID}").Subrouter()
	actions.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	actions.HandleFunc("", d.ItemsH.UpdateActionItem).Methods(http.MethodPut)
	actions.HandleFunc("/status", d.ItemsH.SetActionItemStatus).Methods(http.MethodPut)
	actions.HandleFunc("", d.ItemsH.DeleteActionItem).Methods(http.MethodDelete)
}

func registerTemplateRoutes(router *mux.Router, d Deps) {
	r := router.PathPrefix("/templates").Subrouter()
	r.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	r.HandleFunc("", d.TemplateH.Create).Methods(http.MethodPost)
	r.HandleFunc("", d.TemplateH.List).Methods(http.MethodGet)
	r.HandleFunc("/{templateID}", d.TemplateH.Get).Methods(http.MethodGet)
	r.HandleFunc("/{templateID}", d.TemplateH.Update).Methods(http.MethodPut)
	r.HandleFunc("/{templateID}", d.TemplateH.Delete).Methods(http.MethodDelete)
}

func registerCommentRoutes(router *mux.Router, d Deps) {
	r := router.PathPrefix("/comments").Subrouter()
	r.Use(d.Auth.Middleware, middleware.ResponseWrapper)
	r.HandleFunc("/{itemType}/{itemID}", d.CommentH.Create).Methods(http.MethodPost)
	r.HandleFunc("/{itemType}/{itemID}", d.CommentH.List).Methods(http.MethodGet)
	r.HandleFunc("/{commentID}", d.CommentH.Delete).Methods(http.MethodDelete)
}

func registerRealtimeRoutes(router *mux.Router, d Deps) {
	// Browsers cannot set an Authorization header on a websocket
	// upgrade, so the token arrives as a query parameter.
	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(d.Auth.WebSocketMiddleware)
	ws.HandleFunc("", d.WSH.HandleWebSocket).Methods(http.MethodGet)
}
