package models

import (
	"mime/multipart"
	"strings"
)

// Submission is one volunteer application as posted by the intake form. It lives only for
// the duration of the request.
type Submission struct {
	FullName       string `form:"fullName"`
	DateOfBirth    string `form:"dob"`
	Email          string `form:"email"`
	Phone          string `form:"phone"`
	Nationality    string `form:"nationality"`
	Language       string `form:"language"`
	Interest       string `form:"interest"`
	Motivation     string `form:"motivation"`
	Transport      string `form:"transport"`
	CriminalRecord string `form:"criminal_record"`

	Photo *multipart.FileHeader `form:"-"`
}

// PhotoFormField is the multipart field carrying the passport photo.
const PhotoFormField = "passport"

// Normalize trims every text field in place.
func (s *Submission) Normalize() {
	for _, f := range []*string{
		&s.FullName, &s.DateOfBirth, &s.Email, &s.Phone, &s.Nationality,
		&s.Language, &s.Interest, &s.Motivation, &s.Transport, &s.CriminalRecord,
	} {
		*f = strings.TrimSpace(strings.ReplaceAll(*f, "\x00", ""))
	}
}

// DisplayName falls back to the email address when no name was given.
func (s *Submission) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Email
}
