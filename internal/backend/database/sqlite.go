package database

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS visitors (
			id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT,
			ip TEXT,
			country TEXT,
			device TEXT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE,
			password_hash TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id TEXT PRIMARY KEY,
			name TEXT,
			bio TEXT,
			profile_image TEXT,
			background_image TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS gallery (
			id TEXT PRIMARY KEY,
			path TEXT,
			rank TEXT,
			created_at TIMESTAMP
		)`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return nil, err
		}
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateVisitor(visitor *Visitor) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	createdAt := time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO visitors (id, name, email, ip, country, device, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, visitor.Name, visitor.Email, visitor.IP, visitor.Country, visitor.Device, createdAt)
	if err != nil {
		return "", err
	}

	visitor.ID = id
	visitor.CreatedAt = createdAt
	return id, nil
}

func (s *SQLiteDatabase) GetAllVisitors() ([]*Visitor, error) {
	rows, err := s.db.Query(
		"SELECT id, name, email, ip, country, device, created_at FROM visitors ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var visitors []*Visitor
	for rows.Next() {
		var visitor Visitor
		if err := rows.Scan(&visitor.ID, &visitor.Name, &visitor.Email, &visitor.IP,
			&visitor.Country, &visitor.Device, &visitor.CreatedAt); err != nil {
			return nil, err
		}
		visitors = append(visitors, &visitor)
	}
	return visitors, rows.Err()
}

func (s *SQLiteDatabase) CountVisitors() (int, error) {
	row := s.db.QueryRow("SELECT COUNT(*) FROM visitors")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteDatabase) GetAdminByUsername(username string) (*Admin, error) {
	row := s.db.QueryRow(
		"SELECT id, username, password_hash FROM admins WHERE username = ?", username)
	var admin Admin
	if err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (s *SQLiteDatabase) CreateAdmin(username, passwordHash string) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		"INSERT INTO admins (id, username, password_hash) VALUES (?, ?, ?)",
		id, username, passwordHash)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteDatabase) GetProfile() (*Profile, error) {
	// First row wins; the startup seed guarantees at most one row in practice.
	row := s.db.QueryRow(
		"SELECT id, name, bio, profile_image, background_image FROM profile LIMIT 1")
	var profile Profile
	if err := row.Scan(&profile.ID, &profile.Name, &profile.Bio,
		&profile.ProfileImage, &profile.BackgroundImage); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (s *SQLiteDatabase) CreateProfile(profile *Profile) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		"INSERT INTO profile (id, name, bio, profile_image, background_image) VALUES (?, ?, ?, ?, ?)",
		id, profile.Name, profile.Bio, profile.ProfileImage, profile.BackgroundImage)
	if err != nil {
		return "", err
	}

	profile.ID = id
	return id, nil
}

func (s *SQLiteDatabase) UpdateProfile(profile *Profile) error {
	_, err := s.db.Exec(
		"UPDATE profile SET name = ?, bio = ?, profile_image = ?, background_image = ? WHERE id = ?",
		profile.Name, profile.Bio, profile.ProfileImage, profile.BackgroundImage, profile.ID)
	return err
}

func (s *SQLiteDatabase) CreateGalleryImage(path, rank string) (*GalleryImage, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO gallery (id, path, rank, created_at) VALUES (?, ?, ?, ?)",
		id, path, rank, createdAt)
	if err != nil {
		return nil, err
	}

	return &GalleryImage{ID: id, Path: path, Rank: rank, CreatedAt: createdAt}, nil
}

func (s *SQLiteDatabase) GetGalleryImages() ([]*GalleryImage, error) {
	rows, err := s.db.Query(
		"SELECT id, path, rank, created_at FROM gallery ORDER BY rank ASC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var images []*GalleryImage
	for rows.Next() {
		var image GalleryImage
		if err := rows.Scan(&image.ID, &image.Path, &image.Rank, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, &image)
	}
	return images, rows.Err()
}

func (s *SQLiteDatabase) GetGalleryImageByID(id string) (*GalleryImage, error) {
	row := s.db.QueryRow(
		"SELECT id, path, rank, created_at FROM gallery WHERE id = ?", id)
	var image GalleryImage
	if err := row.Scan(&image.ID, &image.Path, &image.Rank, &image.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (s *SQLiteDatabase) SetGalleryImageRank(id, rank string) error {
	_, err := s.db.Exec("UPDATE gallery SET rank = ? WHERE id = ?", rank, id)
	return err
}

func (s *SQLiteDatabase) DeleteGalleryImage(id string) error {
	_, err := s.db.Exec("DELETE FROM gallery WHERE id = ?", id)
	return err
}
