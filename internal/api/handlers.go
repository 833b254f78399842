package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"chathub/internal/auth"
	"chathub/internal/core"
	"chathub/internal/normalize"
	"chathub/internal/store"
)

type contextKey string

const sessionUserContextKey contextKey = "session_user"

type Handler struct {
	users       *store.UserStore
	chatService *core.ChatService
	sessions    *auth.SessionManager
}

func NewHandler(users *store.UserStore, cs *core.ChatService, sm *auth.SessionManager) *Handler {
	return &Handler{
		users:       users,
		chatService: cs,
		sessions:    sm,
	}
}

// SessionMiddleware gates every chat-affecting route on a valid
// session cookie and puts the authenticated user's claims in the
// request context. Unauthenticated callers go to signup.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			http.Redirect(w, r, "/signup", http.StatusFound)
			return
		}

		claims, err := h.sessions.Verify(cookie.Value)
		if err != nil {
			http.Redirect(w, r, "/signup", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), sessionUserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionUser(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(sessionUserContextKey).(*auth.Claims)
	return claims
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "signup.html", nil)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := strings.ToLower(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", email, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	err = h.users.CreateUser(store.User{Name: name, Email: email, PasswordHash: hashedPassword})
	if errors.Is(err, store.ErrDuplicateEmail) {
		// Inline plain-text error, same-page response, no redirect.
		fmt.Fprint(w, "⚠️ Email already registered.")
		return
	}
	if err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.establishSession(w, r, name, email)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "login.html", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")

	users, err := h.users.All()
	if err != nil {
		log.Printf("Error loading users: %v", err)
		http.Error(w, "Failed to load users", http.StatusInternalServerError)
		return
	}

	for _, user := range users {
		if normalize.Email(user.Email) == email && auth.CheckPassword(user.PasswordHash, password) == nil {
			h.establishSession(w, r, user.Name, user.Email)
			return
		}
	}

	// One shared response body for unknown email and wrong password,
	// so accounts cannot be enumerated.
	fmt.Fprint(w, "⚠️ Invalid email or password.")
}

func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, name, email string) {
	token, err := h.sessions.Issue(name, email)
	if err != nil {
		log.Printf("Error issuing session for %s: %v", email, err)
		http.Error(w, "Failed to establish session", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Home navigates to the most recent chat, creating one for users with
// an empty history.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r.Context())

	chatID, err := h.chatService.LatestChatID(user.Name)
	if errors.Is(err, store.ErrNotFound) {
		chatID, err = h.chatService.CreateChat(user.Name)
	}
	if err != nil {
		log.Printf("Error resolving home chat for %s: %v", user.Name, err)
		http.Error(w, "Failed to open chat", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/chat/"+chatID, http.StatusFound)
}

func (h *Handler) NewChat(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r.Context())

	chatID, err := h.chatService.CreateChat(user.Name)
	if err != nil {
		log.Printf("Error creating chat for %s: %v", user.Name, err)
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/chat/"+chatID, http.StatusFound)
}

type chatPageData struct {
	Username    string
	CurrentChat *store.Chat
	Chats       []store.Chat
}

func (h *Handler) ChatPage(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r.Context())
	chatID := chi.URLParam(r, "chatID")

	chat, err := h.chatService.GetChat(user.Name, chatID)
	if errors.Is(err, store.ErrNotFound) {
		// Unknown ids silently go home rather than 404ing.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		log.Printf("Error loading chat %s for %s: %v", chatID, user.Name, err)
		http.Error(w, "Failed to load chat", http.StatusInternalServerError)
		return
	}

	chats, err := h.chatService.ListChats(user.Name)
	if err != nil {
		log.Printf("Error listing chats for %s: %v", user.Name, err)
		http.Error(w, "Failed to load chats", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, "chat.html", chatPageData{
		Username:    user.Name,
		CurrentChat: chat,
		Chats:       chats,
	})
}

// Send runs the message exchange and then redirects back to the chat
// view (redirect-after-post). Upstream completion failures never reach
// here as errors; they arrive appended to the chat as bot content.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r.Context())
	chatID := chi.URLParam(r, "chatID")
	msg := r.FormValue("msg")

	err := h.chatService.SendMessage(r.Context(), user.Name, chatID, msg)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error sending message in chat %s for %s: %v", chatID, user.Name, err)
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/chat/"+chatID, http.StatusSeeOther)
}

// Delete removes the chat and navigates to the most recently created
// remaining one, falling back to home (which creates a fresh chat).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r.Context())
	chatID := chi.URLParam(r, "chatID")

	if err := h.chatService.DeleteChat(user.Name, chatID); err != nil {
		log.Printf("Error deleting chat %s for %s: %v", chatID, user.Name, err)
		http.Error(w, "Failed to delete chat", http.StatusInternalServerError)
		return
	}

	latestID, err := h.chatService.LatestChatID(user.Name)
	if errors.Is(err, store.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("Error finding latest chat for %s: %v", user.Name, err)
		http.Error(w, "Failed to load chats", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/chat/"+latestID, http.StatusSeeOther)
}
