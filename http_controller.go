package authgate

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes are the paths the controller mounts
type AuthControllerRoutes struct {
	Register  string
	Login     string
	Logout    string
	AuthState string
}

// AuthController is the JSON API surface for the auth service. Handlers are
// stateless; every request is independently served from the cookie and the
// credential store.
type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Routes *AuthControllerRoutes
	Auther *RouteAuthenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:  "/auth/register",
			Login:     "/auth/login",
			Logout:    "/auth/logout",
			AuthState: "/auth/auth-state",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Get(controller.Routes.AuthState, controller.AuthState).
		SetName("auth.state")

	app.Post(controller.Routes.Logout, controller.LogoutPost).
		SetName("auth.logout")
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterPost creates a credential record. Validation failures and
// duplicate username/email conflicts share one 400 shape with per-field
// messages; success carries no body.
func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterUserMessage)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "failed to parse request body"},
		})
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(ctx.Context(), *payload); err != nil {
		fields := FormatFieldErrors(err)

		if a.Debug {
			a.Logger.Debug("register rejected: %s", print.MaybePrettyJSON(fields))
		}

		a.Logger.Info("register rejected for %s: %v", payload.Username, err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"errors": fields,
		})
	}

	a.Logger.Info("user registered: %s", payload.Username)
	return ctx.NoContent(http.StatusNoContent)
}

// LoginPost exchanges credentials for a session cookie. The response body
// never carries the token, and the failure body is identical for unknown
// usernames and wrong passwords.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"errors": FormatFieldErrors(err),
		})
	}

	if err := a.Auther.Login(ctx, payload.Username, payload.Password); err != nil {
		return unauthorized(ctx)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "login successful",
	})
}

// AuthState reports whether the request's cookie carries a currently valid
// token. It resolves to exactly two shapes and never errors for a missing
// or garbled cookie.
func (a *AuthController) AuthState(ctx router.Context) error {
	session, err := a.Auther.SessionFromRequest(ctx)
	if err != nil {
		// expired vs bad signature vs absent stays in the logs only
		a.Logger.Debug("auth state unauthenticated: %v", err)
		return ctx.JSON(http.StatusUnauthorized, map[string]any{
			"authenticated": false,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      session.Username,
	})
}

// LogoutPost clears the session cookie whether or not one was present
func (a *AuthController) LogoutPost(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "logged out",
	})
}

func unauthorized(ctx router.Context) error {
	return ctx.JSON(http.StatusUnauthorized, map[string]any{
		"message": "invalid credentials",
	})
}

// FormatFieldErrors flattens validation and conflict errors into a
// field -> message map for structured 400 responses.
func FormatFieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validation.Errors
	if goerrors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				fields[field] = ferr.Error()
			}
		}
		return fields
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if field, ok := richErr.Metadata["field"].(string); ok && field != "" {
			fields[field] = richErr.Message
			return fields
		}
		fields["request"] = richErr.Message
		return fields
	}

	fields["request"] = err.Error()
	return fields
}
