package frontend

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/jo-hoe/visitlog/internal/backend/database"
	"github.com/jo-hoe/visitlog/internal/backend/session"
	"github.com/jo-hoe/visitlog/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "visitlog_session"
	mimePNG           = "image/png"
)

//go:embed views/*.html
var templateFS embed.FS

const viewsPattern = "views/*.html"

// Template adapts the parsed view templates to echo's Renderer interface.
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.landingHandler)
	e.GET("/signup", service.signupFormHandler)
	e.POST("/signup", service.signupHandler)
	e.GET("/advanced", service.advancedHandler)

	e.GET("/admin-login", service.adminLoginFormHandler)
	e.POST("/admin-login", service.adminLoginHandler)
	e.GET("/admin-dashboard", service.dashboardHandler)
	e.POST("/admin-dashboard", service.dashboardUpdateHandler)
	e.POST("/admin-dashboard/gallery/:id/move", service.moveGalleryImageHandler)
	e.GET("/delete/:id", service.deleteGalleryImageHandler)

	e.GET("/gallery/thumb/:id", service.galleryThumbnailHandler)
	e.Static("/uploads", service.coreService.UploadDirectory())

	e.GET("/logout", service.logoutHandler)
	e.GET("/admin-logout", service.adminLogoutHandler)

	// Liveness probe, excluded from the request log
	e.GET("/probe", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "OK")
	})
}

// currentSession resolves the session referenced by the request cookie.
// Unknown, expired or absent sessions yield a fresh id with default flags; the
// session is only persisted once a handler raises a flag.
func (service *FrontendService) currentSession(ctx echo.Context) (string, *session.Session) {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		stored, err := service.coreService.Sessions().Get(ctx.Request().Context(), cookie.Value)
		if err != nil {
			slog.Error("failed to read session", "error", err)
		} else if stored != nil {
			return cookie.Value, stored
		}
	}

	id, err := session.NewID()
	if err != nil {
		// Without randomness there is no usable session; treat as anonymous.
		slog.Error("failed to generate session id", "error", err)
		return "", &session.Session{}
	}
	return id, &session.Session{}
}

// persistSession stores the session server-side and hands the id to the client.
func (service *FrontendService) persistSession(ctx echo.Context, id string, state *session.Session) error {
	if err := service.coreService.Sessions().Put(ctx.Request().Context(), id, state); err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

type landingData struct {
	ProfileName string
	ProfileBio  string
	TotalVisits int
}

func (service *FrontendService) landingHandler(ctx echo.Context) error {
	if service.config.Features.TrackLanding {
		// Every page load appends a visitor row when the deployment opts in.
		_, err := service.coreService.RecordVisit(ctx.Request().Context(), &database.Visitor{
			IP:     ctx.RealIP(),
			Device: ctx.Request().UserAgent(),
		})
		if err != nil {
			slog.Error("landingHandler: failed to record visit",
				"status", http.StatusInternalServerError, "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to record visit")
		}
	}

	count, err := service.coreService.CountVisits()
	if err != nil {
		slog.Error("landingHandler: failed to count visits",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to count visits")
	}

	profile, err := service.coreService.Profile()
	if err != nil {
		slog.Error("landingHandler: failed to load profile",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load profile")
	}

	data := landingData{TotalVisits: count}
	if profile != nil {
		data.ProfileName = profile.Name
		data.ProfileBio = profile.Bio
	}
	return ctx.Render(http.StatusOK, "landing.html", data)
}

type signupFormData struct {
	CaptchaQuestion string
	CaptchaEnabled  bool
}

func (service *FrontendService) signupFormHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "signup.html", signupFormData{
		CaptchaQuestion: service.config.Signup.CaptchaQuestion,
		CaptchaEnabled:  service.config.Features.Captcha,
	})
}

type signupRequest struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Captcha string `form:"captcha"`
}

func (service *FrontendService) signupHandler(ctx echo.Context) error {
	var request signupRequest
	if err := ctx.Bind(&request); err != nil {
		slog.Warn("signupHandler: failed to bind form",
			"status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid form submission")
	}

	// The static captcha is a shared-secret gate, not a security mechanism.
	if service.config.Features.Captcha && request.Captcha != service.config.Signup.CaptchaAnswer {
		slog.Warn("signupHandler: captcha mismatch", "status", http.StatusBadRequest)
		return ctx.String(http.StatusBadRequest, "Wrong captcha answer")
	}

	_, err := service.coreService.RecordVisit(ctx.Request().Context(), &database.Visitor{
		Name:   request.Name,
		Email:  request.Email,
		IP:     ctx.RealIP(),
		Device: ctx.Request().UserAgent(),
	})
	if err != nil {
		slog.Error("signupHandler: failed to record visitor",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to record visitor")
	}

	id, state := service.currentSession(ctx)
	state.HasVisitorAccess = true
	if err := service.persistSession(ctx, id, state); err != nil {
		slog.Error("signupHandler: failed to persist session",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to persist session")
	}

	return ctx.Redirect(http.StatusSeeOther, "/advanced")
}

type advancedData struct {
	TotalVisits int
}

func (service *FrontendService) advancedHandler(ctx echo.Context) error {
	_, state := service.currentSession(ctx)
	if !state.HasVisitorAccess {
		return ctx.Redirect(http.StatusFound, "/signup")
	}

	count, err := service.coreService.CountVisits()
	if err != nil {
		slog.Error("advancedHandler: failed to count visits",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to count visits")
	}
	return ctx.Render(http.StatusOK, "advanced.html", advancedData{TotalVisits: count})
}

type adminLoginData struct {
	Error string
}

func (service *FrontendService) adminLoginFormHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "admin_login.html", adminLoginData{})
}

type adminLoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (service *FrontendService) adminLoginHandler(ctx echo.Context) error {
	var request adminLoginRequest
	if err := ctx.Bind(&request); err != nil {
		slog.Warn("adminLoginHandler: failed to bind form",
			"status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid form submission")
	}
	if err := ctx.Validate(&request); err != nil {
		// Missing fields get the same generic answer as wrong credentials.
		return ctx.Render(http.StatusOK, "admin_login.html", adminLoginData{Error: "Invalid credentials"})
	}

	authenticated, err := service.coreService.AuthenticateAdmin(request.Username, request.Password)
	if err != nil {
		slog.Error("adminLoginHandler: failed to authenticate",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to authenticate")
	}
	if !authenticated {
		slog.Warn("adminLoginHandler: invalid credentials", "username", request.Username)
		return ctx.Render(http.StatusOK, "admin_login.html", adminLoginData{Error: "Invalid credentials"})
	}

	id, state := service.currentSession(ctx)
	state.IsAdmin = true
	if err := service.persistSession(ctx, id, state); err != nil {
		slog.Error("adminLoginHandler: failed to persist session",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to persist session")
	}

	return ctx.Redirect(http.StatusSeeOther, "/admin-dashboard")
}

// requireAdmin redirects to the login gate when the admin flag is absent.
// It returns false when the request has already been answered.
func (service *FrontendService) requireAdmin(ctx echo.Context) bool {
	_, state := service.currentSession(ctx)
	if !state.IsAdmin {
		_ = ctx.Redirect(http.StatusFound, "/admin-login")
		return false
	}
	return true
}

type dashboardData struct {
	Profile         *database.Profile
	Visitors        []*database.Visitor
	TotalVisits     int
	Gallery         []*database.GalleryImage
	GalleryEnabled  bool
	CaptchaQuestion string
}

func (service *FrontendService) dashboardHandler(ctx echo.Context) error {
	if !service.requireAdmin(ctx) {
		return nil
	}

	visitors, err := service.coreService.ListVisits()
	if err != nil {
		slog.Error("dashboardHandler: failed to list visitors",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list visitors")
	}

	count, err := service.coreService.CountVisits()
	if err != nil {
		slog.Error("dashboardHandler: failed to count visits",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to count visits")
	}

	profile, err := service.coreService.Profile()
	if err != nil {
		slog.Error("dashboardHandler: failed to load profile",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load profile")
	}

	data := dashboardData{
		Profile:         profile,
		Visitors:        visitors,
		TotalVisits:     count,
		GalleryEnabled:  service.config.Features.Gallery,
		CaptchaQuestion: service.config.Signup.CaptchaQuestion,
	}
	if service.config.Features.Gallery {
		gallery, err := service.coreService.GalleryImages()
		if err != nil {
			slog.Error("dashboardHandler: failed to list gallery",
				"status", http.StatusInternalServerError, "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to list gallery")
		}
		data.Gallery = gallery
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "dashboard.html", data)
}

func (service *FrontendService) dashboardUpdateHandler(ctx echo.Context) error {
	if !service.requireAdmin(ctx) {
		return nil
	}

	name := ctx.FormValue("name")
	bio := ctx.FormValue("bio")

	profileImage, closeProfile, err := service.formImage(ctx, "profile_image")
	if err != nil {
		return ctx.String(http.StatusBadRequest, "Failed to read profile image upload")
	}
	defer closeProfile()
	backgroundImage, closeBackground, err := service.formImage(ctx, "background_image")
	if err != nil {
		return ctx.String(http.StatusBadRequest, "Failed to read background image upload")
	}
	defer closeBackground()

	if err := service.coreService.UpdateProfile(name, bio, profileImage, backgroundImage); err != nil {
		slog.Error("dashboardUpdateHandler: failed to update profile",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to update profile")
	}

	if service.config.Features.Gallery {
		galleryImage, closeGallery, err := service.formImage(ctx, "gallery_image")
		if err != nil {
			return ctx.String(http.StatusBadRequest, "Failed to read gallery image upload")
		}
		defer closeGallery()
		if galleryImage != nil {
			if _, err := service.coreService.AddGalleryImage(galleryImage); err != nil {
				slog.Error("dashboardUpdateHandler: failed to add gallery image",
					"status", http.StatusInternalServerError, "error", err)
				return ctx.String(http.StatusInternalServerError, "Failed to add gallery image")
			}
		}
	}

	return ctx.Redirect(http.StatusSeeOther, "/admin-dashboard")
}

// formImage extracts an optional multipart file field. A missing field yields
// a nil upload, not an error. The returned close function is always callable.
func (service *FrontendService) formImage(ctx echo.Context, field string) (*core.ImageUpload, func(), error) {
	noop := func() {}

	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, noop, nil
		}
		slog.Warn("failed to read form file", "field", field, "error", err)
		return nil, noop, nil
	}
	if fileHeader == nil || fileHeader.Filename == "" {
		return nil, noop, nil
	}

	source, err := fileHeader.Open()
	if err != nil {
		slog.Error("failed to open uploaded file",
			"field", field, "filename", fileHeader.Filename, "error", err)
		return nil, noop, err
	}

	return &core.ImageUpload{Filename: fileHeader.Filename, Content: source},
		func() { closeUpload(source, fileHeader) }, nil
}

func closeUpload(source multipart.File, fileHeader *multipart.FileHeader) {
	if err := source.Close(); err != nil {
		slog.Error("failed to close uploaded file reader",
			"filename", fileHeader.Filename, "error", err)
	}
}

func (service *FrontendService) deleteGalleryImageHandler(ctx echo.Context) error {
	if !service.requireAdmin(ctx) {
		return nil
	}

	// Deleting a missing id is a no-op; the dashboard is re-rendered either way.
	if err := service.coreService.DeleteGalleryImage(ctx.Param("id")); err != nil {
		slog.Error("deleteGalleryImageHandler: failed to delete image",
			"status", http.StatusInternalServerError, "image_id", ctx.Param("id"), "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete image")
	}
	return ctx.Redirect(http.StatusFound, "/admin-dashboard")
}

func (service *FrontendService) moveGalleryImageHandler(ctx echo.Context) error {
	if !service.requireAdmin(ctx) {
		return nil
	}

	direction := ctx.QueryParam("dir")
	if direction != "up" && direction != "down" {
		slog.Warn("moveGalleryImageHandler: invalid direction", "dir", direction)
		return ctx.String(http.StatusBadRequest, "Invalid move direction")
	}
	if err := service.coreService.MoveGalleryImage(ctx.Param("id"), direction); err != nil {
		slog.Error("moveGalleryImageHandler: failed to move image",
			"status", http.StatusInternalServerError, "image_id", ctx.Param("id"), "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to move image")
	}
	return ctx.Redirect(http.StatusSeeOther, "/admin-dashboard")
}

func (service *FrontendService) galleryThumbnailHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	thumbnail, err := service.coreService.GalleryThumbnail(id)
	if err != nil {
		slog.Error("galleryThumbnailHandler: failed to render thumbnail",
			"status", http.StatusInternalServerError, "image_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render thumbnail")
	}
	if thumbnail == nil {
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) logoutHandler(ctx echo.Context) error {
	return service.clearFlag(ctx, func(state *session.Session) {
		state.HasVisitorAccess = false
	})
}

func (service *FrontendService) adminLogoutHandler(ctx echo.Context) error {
	return service.clearFlag(ctx, func(state *session.Session) {
		state.IsAdmin = false
	})
}

// clearFlag lowers one session flag and redirects home. Sessions that were
// never persisted are left untouched.
func (service *FrontendService) clearFlag(ctx echo.Context, clear func(*session.Session)) error {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		stored, err := service.coreService.Sessions().Get(ctx.Request().Context(), cookie.Value)
		if err != nil {
			slog.Error("failed to read session on logout", "error", err)
		} else if stored != nil {
			clear(stored)
			if err := service.coreService.Sessions().Put(ctx.Request().Context(), cookie.Value, stored); err != nil {
				slog.Error("failed to persist session on logout", "error", err)
			}
		}
	}
	return ctx.Redirect(http.StatusFound, "/")
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
