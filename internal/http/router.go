package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pulse/internal/auth"
	"pulse/internal/chat"
	"pulse/internal/comment"
	"pulse/internal/config"
	"pulse/internal/habit"
	"pulse/internal/http/handler"
	mw "pulse/internal/http/middleware"
	"pulse/internal/message"
	"pulse/internal/notification"
	"pulse/internal/post"
	"pulse/internal/project"
	"pulse/internal/reaction"
	"pulse/internal/realtime"
	"pulse/internal/transaction"
	"pulse/internal/upload"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Cfg config.Config
	DB  *gorm.DB
	JWT *auth.JWT
	Hub *realtime.Hub
	Log zerolog.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(d.Cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Cfg.CORSAllowedOrigins, d.Cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	uploads := &upload.Store{Dir: d.Cfg.UploadDir}
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Cfg.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	authSvc := &auth.Service{DB: d.DB, JWT: d.JWT}
	chatSvc := &chat.Service{DB: d.DB, Log: d.Log}
	msgSvc := &message.Service{DB: d.DB, RT: d.Hub, Log: d.Log}
	postSvc := &post.Service{DB: d.DB}
	commentSvc := &comment.Service{DB: d.DB}
	reactionSvc := &reaction.Service{DB: d.DB}
	habitSvc := &habit.Service{DB: d.DB}
	projectSvc := &project.Service{DB: d.DB}
	txSvc := &transaction.Service{DB: d.DB}
	notifSvc := &notification.Service{DB: d.DB}

	ah := &handler.AuthHandler{Svc: authSvc, JWT: d.JWT}
	ch := &handler.ChatHandler{Svc: chatSvc}
	mh := &handler.MessageHandler{Svc: msgSvc, Users: authSvc, Uploads: uploads, RT: d.Hub}
	ph := &handler.PostHandler{Svc: postSvc, Uploads: uploads}
	cmh := &handler.CommentHandler{Svc: commentSvc}
	rh := &handler.ReactionHandler{Svc: reactionSvc}
	hh := &handler.HabitHandler{Svc: habitSvc}
	pjh := &handler.ProjectHandler{Svc: projectSvc}
	th := &handler.TransactionHandler{Svc: txSvc}
	nh := &handler.NotificationHandler{Svc: notifSvc}
	wsh := handler.NewWSHandler(d.Hub, chatSvc, d.Log)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", ah.Register)
		r.Post("/login", ah.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.JWT))
			r.Get("/", ah.List)
			r.Get("/me", ah.Me)
			r.Get("/users/{userId}", ah.GetUser)
		})
	})

	r.Route("/chats", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", ch.Create)
		r.Get("/", ch.List)
		r.Get("/{id}", ch.Get)
		r.Patch("/{id}", ch.Rename)
		r.Delete("/{id}", ch.Delete)
		r.Post("/{id}/participants", ch.AddParticipants)
		r.Delete("/{id}/participants/{userId}", ch.RemoveParticipant)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", mh.Send)
		r.Post("/typing", mh.Typing)
		r.Post("/call/start", mh.StartCall)
		r.Patch("/call/end/{callId}", mh.EndCall)
		r.Get("/chat/{chatId}", mh.List)
		r.Get("/unseen/{chatId}", mh.Unseen)
		r.Patch("/status/{messageId}", mh.UpdateStatus)
		r.Post("/read/{messageId}", mh.MarkSeen)
		r.Delete("/{id}", mh.Delete)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", ph.Create)
		r.Get("/", ph.List)
		r.Get("/user/{authorId}", ph.ListByAuthor)
		r.Put("/{id}", ph.Update)
		r.Delete("/{id}", ph.Delete)
		r.Patch("/{id}/share", ph.Share)

		r.Route("/{postId}/comments", func(r chi.Router) {
			r.Post("/", cmh.Create)
			r.Get("/", cmh.ListByPost)
			r.Get("/{commentId}", cmh.Get)
			r.Put("/{commentId}", cmh.Update)
			r.Delete("/{commentId}", cmh.Delete)
			r.Get("/{commentId}/replies", cmh.ListReplies)
		})
	})

	r.Route("/reactions", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/post/{postId}", rh.ReactToPost)
		r.Post("/comment/{commentId}", rh.ReactToComment)
		r.Post("/message/{messageId}", rh.ReactToMessage)
		r.Get("/count/details/{postId}", rh.PostCounts)
		r.Get("/message/{messageId}", rh.MessageReactions)
		r.Get("/messages/counts", rh.MessageCounts)
		r.Delete("/{reactionId}", rh.Remove)
	})

	r.Route("/habits", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", hh.Create)
		r.Get("/", hh.List)
		r.Get("/{id}", hh.Get)
		r.Patch("/{id}", hh.Update)
		r.Delete("/{id}", hh.Delete)
		r.Patch("/{id}/status", hh.UpdateStatus)
		r.Post("/{id}/completion", hh.RecordCompletion)
		r.Post("/{id}/reset", hh.Reset)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", pjh.Create)
		r.Get("/", pjh.List)
		r.Get("/{id}", pjh.Get)
		r.Put("/{id}", pjh.Update)
		r.Delete("/{id}", pjh.Delete)

		r.Route("/{projectId}/tasks", func(r chi.Router) {
			r.Post("/", pjh.CreateTask)
			r.Get("/", pjh.ListTasks)
			r.Get("/{taskId}", pjh.GetTask)
			r.Put("/{taskId}", pjh.UpdateTask)
			r.Delete("/{taskId}", pjh.DeleteTask)
		})
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", th.Create)
		r.Get("/", th.List)
		r.Get("/{id}", th.Get)
		r.Patch("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Get("/", nh.List)
		r.Patch("/{id}/read", nh.MarkRead)
	})

	r.With(auth.RequireAuth(d.JWT)).Get("/ws/chats/{id}", wsh.Subscribe)

	return r
}
