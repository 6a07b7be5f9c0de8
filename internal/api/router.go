package api

import (
	"net/http"
	"time"

	"pnuchat-backend/internal/config"
	"pnuchat-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	ChatHandler         *handlers.ChatHandlers
	ConversationHandler *handlers.ConversationHandlers
	MaterialHandler     *handlers.MaterialHandlers
	ContentHandler      *handlers.ContentHandlers
	RequestHandler      *handlers.RequestHandlers
	UserHandler         *handlers.UserHandlers
	RealtimeHandler     http.Handler
	Roles               RoleLookup
	Config              *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// No global timeout: the relay and realtime endpoints hold connections
	// open for as long as a stream runs.

	// The relay is called from browser clients directly, so CORS is wide
	// open the same way the rest of the API is.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Public Relay Routes ---
	// The chat relay accepts anonymous callers; a valid token, when sent,
	// binds the request to the user for daily usage accounting.
	if deps.ChatHandler == nil {
		panic("ChatHandler dependency is nil in router setup")
	}
	r.Group(func(r chi.Router) {
		r.Use(OptionalJwtMiddleware(deps.Config.JWTSecret))
		r.Use(middleware.Timeout(5 * time.Minute))
		r.Post("/v1/chat", deps.ChatHandler.HandleChat)
		r.Post("/v1/chat/complete", deps.ChatHandler.HandleComplete)
	})

	// --- Public Content Routes ---
	if deps.ContentHandler != nil {
		r.Get("/v1/ads", deps.ContentHandler.HandleListAds)
		r.Get("/v1/news", deps.ContentHandler.HandleListNews)
	}
	if deps.MaterialHandler != nil {
		r.Get("/v1/materials", deps.MaterialHandler.HandleListMaterials)
	}

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		r.Get("/limits", deps.ChatHandler.HandleLimits)

		// --- Mount Realtime Change Feed ---
		if deps.RealtimeHandler != nil {
			r.Get("/realtime", deps.RealtimeHandler.ServeHTTP)
		}

		// --- Mount Conversation Routes ---
		if deps.ConversationHandler != nil {
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", deps.ConversationHandler.HandleCreateConversation)
				r.Get("/", deps.ConversationHandler.HandleListConversations)
				r.Get("/{conversationID}", deps.ConversationHandler.HandleGetConversation)
				r.Patch("/{conversationID}", deps.ConversationHandler.HandleRenameConversation)
				r.Delete("/{conversationID}", deps.ConversationHandler.HandleDeleteConversation)

				// Message APIs
				r.Get("/{conversationID}/messages", deps.ConversationHandler.HandleListMessages)
				r.Post("/{conversationID}/messages", deps.ConversationHandler.HandleAddMessage)
			})
			r.Route("/messages", func(r chi.Router) {
				r.Put("/{messageID}", deps.ConversationHandler.HandleEditMessage)
				r.Delete("/{messageID}", deps.ConversationHandler.HandleDeleteMessage)
			})
		}

		// --- Mount Content Request Routes ---
		if deps.RequestHandler != nil {
			r.Route("/requests", func(r chi.Router) {
				r.Post("/", deps.RequestHandler.HandleSubmitRequest)
				r.Get("/", deps.RequestHandler.HandleListOwnRequests)
			})
		}

		// --- Mount Admin Routes ---
		r.Route("/admin", func(r chi.Router) {
			if deps.Roles == nil {
				panic("Roles dependency is nil in router setup")
			}
			r.Use(RequireAdmin(deps.Roles))

			if deps.UserHandler != nil {
				r.Get("/users", deps.UserHandler.HandleListUsers)
				r.Put("/users/{userID}/role", deps.UserHandler.HandleSetRole)
				r.Delete("/users/{userID}", deps.UserHandler.HandleDeleteUser)
			}
			if deps.MaterialHandler != nil {
				r.Post("/materials", deps.MaterialHandler.HandleCreateMaterial)
				r.Delete("/materials/{materialID}", deps.MaterialHandler.HandleDeleteMaterial)
			}
			if deps.ContentHandler != nil {
				r.Get("/ads", deps.ContentHandler.HandleAdminListAds)
				r.Post("/ads", deps.ContentHandler.HandleCreateAd)
				r.Put("/ads/{adID}", deps.ContentHandler.HandleUpdateAd)
				r.Delete("/ads/{adID}", deps.ContentHandler.HandleDeleteAd)

				r.Get("/news", deps.ContentHandler.HandleAdminListNews)
				r.Post("/news", deps.ContentHandler.HandleCreateNews)
				r.Put("/news/{newsID}", deps.ContentHandler.HandleUpdateNews)
				r.Delete("/news/{newsID}", deps.ContentHandler.HandleDeleteNews)
			}
			if deps.RequestHandler != nil {
				r.Get("/requests", deps.RequestHandler.HandleAdminListRequests)
				r.Put("/requests/{requestID}", deps.RequestHandler.HandleReviewRequest)
				r.Delete("/requests/{requestID}", deps.RequestHandler.HandleDeleteRequest)

				r.Get("/settings", deps.RequestHandler.HandleListSettings)
				r.Put("/settings/{settingID}", deps.RequestHandler.HandleUpdateSetting)
			}
		})
	})

	return r
}
