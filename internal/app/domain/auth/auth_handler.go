package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
	"github.com/sarayu-iot/admin-api/internal/app/middleware"
	"github.com/sarayu-iot/admin-api/internal/app/models"
	"github.com/sarayu-iot/admin-api/internal/session"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type AuthHandlers struct {
	*domain.BaseHandler
	authService AuthService
}

func NewAuthHandlers(authService AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates an account and logs it in by writing the principal
// into the request's session.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		// The admin UI expects a plain 400 here, not a 409.
		if errors.Is(err, models.ErrConflict) {
			h.RespondError(c, http.StatusBadRequest, "User already exists")
			return
		}
		h.RespondDomainError(c, err)
		return
	}

	h.establishSession(c, user)
	h.RespondData(c, http.StatusCreated, principalBody(user))
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}

	h.establishSession(c, user)
	h.RespondData(c, http.StatusOK, principalBody(user))
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		sess.Destroy()
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}

// GetMe re-reads the account so the response reflects the database, not
// the possibly stale session copy.
func (h *AuthHandlers) GetMe(c *gin.Context) {
	actor := middleware.GetUserFromContext(c)
	if actor == nil {
		h.RespondError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), actor.ID.String())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, principalBody(user))
}

func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{"message": "Password reset email sent (implementation pending)"})
}

func (h *AuthHandlers) GetUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(users), users)
}

func (h *AuthHandlers) GetUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, user)
}

func (h *AuthHandlers) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Role)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, principalBody(user))
}

func (h *AuthHandlers) DeleteUser(c *gin.Context) {
	actor := middleware.GetUserFromContext(c)
	if actor == nil {
		h.RespondError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	if err := h.authService.DeleteUser(c.Request.Context(), c.Param("id"), actor.ID.String()); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}

func (h *AuthHandlers) establishSession(c *gin.Context, user *models.User) {
	sess := session.FromContext(c)
	if sess == nil {
		h.Logger.Warn("No session on request, login will not persist", zap.String("path", c.FullPath()))
		return
	}
	sess.SetUser(session.Principal{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

func principalBody(user *models.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}
