package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreateVisitor appends a visit row with a server-assigned timestamp and
	// returns the generated ID. Visitor rows are never updated.
	CreateVisitor(visitor *Visitor) (string, error)
	GetAllVisitors() ([]*Visitor, error) // newest first
	CountVisitors() (int, error)

	GetAdminByUsername(username string) (*Admin, error) // nil when absent
	CreateAdmin(username, passwordHash string) (string, error)

	GetProfile() (*Profile, error) // first row, nil when absent
	CreateProfile(profile *Profile) (string, error)
	UpdateProfile(profile *Profile) error

	CreateGalleryImage(path, rank string) (*GalleryImage, error)
	GetGalleryImages() ([]*GalleryImage, error) // ordered by rank
	GetGalleryImageByID(id string) (*GalleryImage, error) // nil when absent
	SetGalleryImageRank(id, rank string) error
	// DeleteGalleryImage is idempotent; deleting a missing id is a no-op.
	DeleteGalleryImage(id string) error
}
