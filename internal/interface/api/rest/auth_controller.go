package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-uploader/config"
	"file-uploader/internal/application/ports"
	"file-uploader/internal/application/services"
	"file-uploader/internal/domain/user"
	"file-uploader/internal/interface/api/rest/dto/auth"
	"file-uploader/internal/interface/api/rest/middleware"
	"file-uploader/internal/interface/api/rest/validator"
)

const msgEmailExists = "Email already exists."

type AuthController struct {
	logger      *zap.Logger
	session     config.Session
	userService ports.UserService
	authService ports.Auth
}

func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	session config.Session,
	userService ports.UserService,
	authService ports.Auth,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		session:     session,
		userService: userService,
		authService: authService,
	}

	r.GET(RouteSignup, ac.SignupPageHandler)
	r.POST(RouteSignup, ac.SignupHandler)
	r.GET(RouteLogin, ac.LoginPageHandler)
	r.POST(RouteLogin, ac.LoginHandler)
	r.POST(RouteLogout, ac.LogoutHandler)

	return ac
}

func (ac *AuthController) SignupPageHandler(c *gin.Context) {
	render(c, http.StatusOK, viewSignup, gin.H{"title": "Sign Up"})
}

func (ac *AuthController) SignupHandler(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.signupForm(c, http.StatusBadRequest, req, []string{"Invalid form submission."}, "")
		return
	}

	if errs := validator.ValidateSignup(req); errs != nil {
		confirmErr := errs["confirmPassword"]
		delete(errs, "confirmPassword")
		ac.signupForm(c, http.StatusBadRequest, req, fieldErrors(errs, "email", "password"), confirmErr)
		return
	}

	u, err := ac.userService.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			ac.signupForm(c, http.StatusBadRequest, req, []string{msgEmailExists}, "")
			return
		}
		renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		ac.logger.Error("Signup() error", zap.Error(err))
		return
	}

	ac.logger.Info("user signed up", zap.Stringer("user_id", u.ID))

	c.Redirect(http.StatusFound, RouteLogin)
}

func (ac *AuthController) signupForm(c *gin.Context, status int, req auth.SignupRequest, errs []string, confirmErr string) {
	render(c, status, viewSignup, gin.H{
		"title":        "Sign Up",
		"errors":       errs,
		"confirmError": confirmErr,
		"formEmail":    req.Email,
	})
}

func (ac *AuthController) LoginPageHandler(c *gin.Context) {
	render(c, http.StatusOK, viewLogin, gin.H{
		"title":      "Log In",
		"loginError": c.Query("error") == "true",
	})
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil || validator.ValidateLogin(req) != nil {
		c.Redirect(http.StatusFound, RouteLogin+"?error=true")
		return
	}

	u, err := ac.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		ac.logger.Error("FindByEmail() error", zap.Error(err))
		return
	}

	token, err := ac.authService.GenerateToken(u, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Redirect(http.StatusFound, RouteLogin+"?error=true")
			return
		}
		renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
		ac.logger.Error("GenerateToken() error", zap.Error(err), zap.Stringer("user_id", u.ID))
		return
	}

	middleware.SetSessionCookie(c, token, ac.session.TTL, ac.session.SecureCookie)
	c.Redirect(http.StatusFound, RouteHome)
}

func (ac *AuthController) LogoutHandler(c *gin.Context) {
	middleware.ClearSessionCookie(c, ac.session.SecureCookie)
	c.Redirect(http.StatusFound, RouteLogin)
}

// fieldErrors flattens errs in a stable field order.
func fieldErrors(errs map[string]string, order ...string) []string {
	out := make([]string, 0, len(errs))
	for _, k := range order {
		if msg, ok := errs[k]; ok {
			out = append(out, msg)
		}
	}
	return out
}
