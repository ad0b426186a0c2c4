package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jo-hoe/visitlog/internal/backend/database"
	"github.com/jo-hoe/visitlog/internal/backend/geoip"
	"github.com/jo-hoe/visitlog/internal/backend/session"
	"github.com/jo-hoe/visitlog/internal/backend/thumbnail"
	"github.com/jo-hoe/visitlog/internal/backend/upload"

	"golang.org/x/crypto/bcrypt"
)

// ImageUpload carries one uploaded file from a handler into the core service.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	sessionService  session.SessionService
	geoClient       *geoip.Client
	uploadStorage   *upload.Storage
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)

	sessionService, err := session.NewRedisSessionStore(
		config.Session.RedisAddress,
		time.Duration(config.Session.TTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	uploadStorage, err := upload.NewStorage(config.Uploads.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		sessionService:  sessionService,
		geoClient: geoip.NewClient(
			config.Geolocation.BaseURL,
			time.Duration(config.Geolocation.TimeoutSeconds)*time.Second),
		uploadStorage: uploadStorage,
	}

	if err := service.seed(); err != nil {
		return nil, fmt.Errorf("failed to seed initial data: %w", err)
	}

	return service, nil
}

// seed creates the default admin credential and the singleton profile row when
// they are absent. Both operations are idempotent across restarts.
func (service *CoreService) seed() error {
	admin, err := service.databaseService.GetAdminByUsername(service.config.Admin.Username)
	if err != nil {
		return err
	}
	if admin == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(service.config.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if _, err := service.databaseService.CreateAdmin(service.config.Admin.Username, string(hash)); err != nil {
			return err
		}
		slog.Info("seeded default admin credential", "username", service.config.Admin.Username)
	}

	profile, err := service.databaseService.GetProfile()
	if err != nil {
		return err
	}
	if profile == nil {
		if _, err := service.databaseService.CreateProfile(&database.Profile{}); err != nil {
			return err
		}
		slog.Info("seeded empty profile row")
	}

	return nil
}

func (service *CoreService) Close() error {
	if err := service.sessionService.Close(); err != nil {
		slog.Error("failed to close session store", "error", err)
	}
	return service.databaseService.Close()
}

// Sessions exposes the per-client session store to the HTTP layer.
func (service *CoreService) Sessions() session.SessionService {
	return service.sessionService
}

// Config returns the loaded service configuration.
func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// RecordVisit appends a visitor row. When the country is not supplied it is
// resolved through the geolocation service; the "Unknown" fallback is applied
// here, once, so lookup failures never abort the recording.
func (service *CoreService) RecordVisit(ctx context.Context, visitor *database.Visitor) (string, error) {
	if visitor.Country == "" {
		result := service.geoClient.CountryFor(ctx, visitor.IP)
		if result.Resolved {
			visitor.Country = result.Country
		} else {
			visitor.Country = geoip.FallbackCountry
		}
	}
	return service.databaseService.CreateVisitor(visitor)
}

func (service *CoreService) ListVisits() ([]*database.Visitor, error) {
	return service.databaseService.GetAllVisitors()
}

func (service *CoreService) CountVisits() (int, error) {
	return service.databaseService.CountVisitors()
}

// AuthenticateAdmin verifies the credential pair against the stored bcrypt
// hash. Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (service *CoreService) AuthenticateAdmin(username, password string) (bool, error) {
	admin, err := service.databaseService.GetAdminByUsername(username)
	if err != nil {
		return false, err
	}
	if admin == nil {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (service *CoreService) Profile() (*database.Profile, error) {
	return service.databaseService.GetProfile()
}

// UpdateProfile stores the submitted name and bio and, when provided, persists
// the uploaded images and records their relative paths on the profile row.
func (service *CoreService) UpdateProfile(name, bio string, profileImage, backgroundImage *ImageUpload) error {
	profile, err := service.databaseService.GetProfile()
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile row is missing; seed did not run")
	}

	profile.Name = name
	profile.Bio = bio

	if profileImage != nil {
		path, err := service.uploadStorage.Save(profileImage.Filename, profileImage.Content)
		if err != nil {
			return fmt.Errorf("failed to store profile image: %w", err)
		}
		profile.ProfileImage = path
	}
	if backgroundImage != nil {
		path, err := service.uploadStorage.Save(backgroundImage.Filename, backgroundImage.Content)
		if err != nil {
			return fmt.Errorf("failed to store background image: %w", err)
		}
		profile.BackgroundImage = path
	}

	return service.databaseService.UpdateProfile(profile)
}

// AddGalleryImage stores the upload and appends a gallery row ranked after the
// current last image.
func (service *CoreService) AddGalleryImage(image *ImageUpload) (*database.GalleryImage, error) {
	path, err := service.uploadStorage.Save(image.Filename, image.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store gallery image: %w", err)
	}

	images, err := service.databaseService.GetGalleryImages()
	if err != nil {
		return nil, err
	}
	lastRank := ""
	if len(images) > 0 {
		lastRank = images[len(images)-1].Rank
	}

	return service.databaseService.CreateGalleryImage(path, database.NextRank(lastRank))
}

func (service *CoreService) GalleryImages() ([]*database.GalleryImage, error) {
	return service.databaseService.GetGalleryImages()
}

// DeleteGalleryImage removes the row if present. A missing id is a no-op.
func (service *CoreService) DeleteGalleryImage(id string) error {
	return service.databaseService.DeleteGalleryImage(id)
}

// MoveGalleryImage shifts an image one position up or down by re-ranking it
// between its new neighbors. Moves past either end and unknown ids are no-ops.
func (service *CoreService) MoveGalleryImage(id, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid move direction: %s", direction)
	}

	images, err := service.databaseService.GetGalleryImages()
	if err != nil {
		return err
	}

	index := -1
	for i := range images {
		if images[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}

	var lower, upper string
	switch direction {
	case "up":
		if index == 0 {
			return nil
		}
		if index >= 2 {
			lower = images[index-2].Rank
		}
		upper = images[index-1].Rank
	case "down":
		if index == len(images)-1 {
			return nil
		}
		lower = images[index+1].Rank
		if index+2 < len(images) {
			upper = images[index+2].Rank
		}
	}

	return service.databaseService.SetGalleryImageRank(id, database.RankBetween(lower, upper))
}

// GalleryThumbnail renders a PNG thumbnail for the stored gallery image.
// Returns nil data without an error when the id is unknown.
func (service *CoreService) GalleryThumbnail(id string) ([]byte, error) {
	image, err := service.databaseService.GetGalleryImageByID(id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, nil
	}

	data, err := service.uploadStorage.Read(image.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery image %s: %w", image.Path, err)
	}
	return thumbnail.Generate(data, service.config.Uploads.ThumbnailWidth)
}

// UploadDirectory returns the filesystem root of stored uploads for static
// serving.
func (service *CoreService) UploadDirectory() string {
	return service.uploadStorage.Directory()
}
