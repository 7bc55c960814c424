package controller

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
	"github.com/Ruturaj-007/video-platform-api/internal/service"
	"github.com/Ruturaj-007/video-platform-api/internal/util"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	// CurrentUserKey is the echo context key under which the auth middleware
	// stores the resolved *models.User.
	CurrentUserKey = "currentUser"
)

type Controller struct {
	log           *zap.SugaredLogger
	authService   *service.AuthService
	tokenConfig   *util.TokenConfig
	cookieConfig  *util.CookieConfig
	uploadTempDir string
}

func NewController(
	log *zap.SugaredLogger,
	authService *service.AuthService,
	tokenConfig *util.TokenConfig,
	cookieConfig *util.CookieConfig,
	uploadConfig *util.UploadConfig,
) *Controller {
	return &Controller{
		log:           log,
		authService:   authService,
		tokenConfig:   tokenConfig,
		cookieConfig:  cookieConfig,
		uploadTempDir: uploadConfig.TempDir,
	}
}

// RegisterRoutes wires the user routes. authMW guards the routes that need a
// resolved user. JSON endpoints get the small body limit; the multipart
// register endpoint gets the upload limit.
func RegisterRoutes(e *echo.Echo, c *Controller, authMW echo.MiddlewareFunc, sc *util.ServerConfig, base string) {
	jsonLimit := echomiddleware.BodyLimit(sc.BodyLimit)
	uploadLimit := echomiddleware.BodyLimit(sc.UploadBodyLimit)

	g := e.Group(base)
	g.GET("/ping", c.CheckServer)

	users := g.Group("/users")
	users.POST("/register", c.Register, uploadLimit)
	users.POST("/login", c.Login, jsonLimit)
	users.POST("/logout", c.Logout, authMW)
	users.POST("/refresh-token", c.RefreshToken, jsonLimit)
	users.GET("/current", c.CurrentUser, authMW)
}

func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

// Register handles the multipart registration form: text fields plus a
// required avatar file and an optional cover image. Files are staged to a
// local temp dir for the upload sink and removed when the request ends,
// whichever way it ends.
func (c *Controller) Register(ctx echo.Context) error {
	in := service.RegisterInput{
		FullName: ctx.FormValue("fullName"),
		Email:    ctx.FormValue("email"),
		Username: ctx.FormValue("username"),
		Password: ctx.FormValue("password"),
	}

	if file, err := ctx.FormFile("avatar"); err == nil {
		path, err := c.stageFile(file)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		in.AvatarPath = path
	}

	if file, err := ctx.FormFile("coverImage"); err == nil {
		path, err := c.stageFile(file)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		in.CoverImagePath = path
	}

	user, err := c.authService.Register(ctx.Request().Context(), in)
	if err != nil {
		return err
	}

	return respond(ctx, http.StatusCreated, "User registered successfully", user)
}

func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, pair, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	c.setAuthCookies(ctx, pair)
	return respond(ctx, http.StatusOK, "User logged in successfully", models.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *Controller) Logout(ctx echo.Context) error {
	user, ok := ctx.Get(CurrentUserKey).(*models.User)
	if !ok {
		return service.ErrUnauthorized
	}

	if err := c.authService.Logout(ctx.Request().Context(), user.ID); err != nil {
		return err
	}

	c.clearAuthCookies(ctx)
	return respond(ctx, http.StatusOK, "User logged out successfully", nil)
}

// RefreshToken reads the refresh token from the cookie, falling back to the
// JSON body, and answers with a freshly rotated pair.
func (c *Controller) RefreshToken(ctx echo.Context) error {
	incoming := ""
	if cookie, err := ctx.Cookie(RefreshTokenCookie); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var req models.RefreshRequest
		if err := ctx.Bind(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	pair, err := c.authService.Refresh(ctx.Request().Context(), incoming)
	if err != nil {
		return err
	}

	c.setAuthCookies(ctx, pair)
	return respond(ctx, http.StatusOK, "Access token refreshed", pair)
}

func (c *Controller) CurrentUser(ctx echo.Context) error {
	user, ok := ctx.Get(CurrentUserKey).(*models.User)
	if !ok {
		return service.ErrUnauthorized
	}
	return respond(ctx, http.StatusOK, "Current user fetched successfully", user.Public())
}

func (c *Controller) setAuthCookies(ctx echo.Context, pair *models.TokenPair) {
	ctx.SetCookie(c.authCookie(AccessTokenCookie, pair.AccessToken, int(c.tokenConfig.AccessTTL.Seconds())))
	ctx.SetCookie(c.authCookie(RefreshTokenCookie, pair.RefreshToken, int(c.tokenConfig.RefreshTTL.Seconds())))
}

func (c *Controller) clearAuthCookies(ctx echo.Context) {
	ctx.SetCookie(c.authCookie(AccessTokenCookie, "", -1))
	ctx.SetCookie(c.authCookie(RefreshTokenCookie, "", -1))
}

func (c *Controller) authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cookieConfig.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// stageFile copies an uploaded part into the temp dir under a unique name,
// keeping the original extension for content-type sniffing later.
func (c *Controller) stageFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid file upload")
	}
	defer src.Close()

	if err := os.MkdirAll(c.uploadTempDir, 0o755); err != nil {
		c.log.Errorw("failed to create upload temp dir", "error", err)
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(c.uploadTempDir, uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		c.log.Errorw("failed to stage uploaded file", "error", err)
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		c.log.Errorw("failed to write staged file", "error", err)
		return "", err
	}

	return path, nil
}
