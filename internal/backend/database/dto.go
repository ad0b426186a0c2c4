package database

import "time"

// Visitor is a single recorded visit. Rows are append-only; the timestamp is
// assigned by the server at insert time.
type Visitor struct {
	ID        string
	Name      string
	Email     string
	IP        string
	Country   string
	Device    string // raw user-agent string
	CreatedAt time.Time
}

// Profile is the site owner's profile. The table holds at most one row that is
// treated as "the" profile; the startup seed creates it when absent.
type Profile struct {
	ID              string
	Name            string
	Bio             string
	ProfileImage    string // path relative to the upload directory
	BackgroundImage string // path relative to the upload directory
}

// GalleryImage is one uploaded gallery entry. Listing order is driven by the
// lexicographic rank, not by insertion time.
type GalleryImage struct {
	ID        string
	Path      string // path relative to the upload directory
	Rank      string
	CreatedAt time.Time
}

// Admin holds the management credential. The password is stored as a bcrypt
// hash, never in the clear.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
}
