package models

import (
	"fmt"
	"io"
	"time"

	dErrors "regdesk/pkg/domain-errors"
	s "regdesk/pkg/string"
	"regdesk/pkg/validation"
)

// File size ceilings for uploaded media.
const (
	MaxPhotoBytes = 5 * 1024 * 1024
	MaxVideoBytes = 10 * 1024 * 1024
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
}

// FileUpload is a single attachment pulled out of a multipart submission.
// Content is consumed once, by the media store.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SubmissionForm carries the typed field values and optional attachments of a
// registration submission. The same form backs both create and update.
type SubmissionForm struct {
	Name        string    `validate:"required,min=3,max=50"`
	DateOfBirth time.Time `validate:"required"`
	Gender      Gender    `validate:"required,oneof=male female other"`
	Mobile      string    `validate:"required,len=10,digits"`
	Email       string    `validate:"required,email"`
	Aadhaar     string    `validate:"required,len=12,digits"`
	PAN         string    `validate:"required,pan"`
	Address     string    `validate:"required,min=10,max=200"`
	State       string    `validate:"required,notblank"`
	City        string    `validate:"required,min=2"`
	Pincode     string    `validate:"required,len=6,digits"`

	Photo *FileUpload `validate:"-"`
	Video *FileUpload `validate:"-"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (f *SubmissionForm) Normalize() {
	if f == nil {
		return
	}
	s.TrimStrings(&f.Name, &f.Mobile, &f.Email, &f.Aadhaar, &f.PAN, &f.Address, &f.State, &f.City, &f.Pincode)
}

// Validate checks every field and attachment rule. It must pass before any
// side effect (upload or write) happens.
func (f *SubmissionForm) Validate() error {
	if f == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Validate(f); err != nil {
		return err
	}
	if f.DateOfBirth.After(time.Now()) {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth cannot be in the future")
	}
	if f.Photo != nil {
		if err := validatePhoto(f.Photo); err != nil {
			return err
		}
	}
	if f.Video != nil {
		if err := validateVideo(f.Video); err != nil {
			return err
		}
	}
	return nil
}

func validatePhoto(file *FileUpload) error {
	if !allowedPhotoTypes[file.ContentType] {
		return dErrors.New(dErrors.CodeValidation, "photo must be a JPG or PNG image")
	}
	if file.Size > MaxPhotoBytes {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("photo must be at most %d bytes", MaxPhotoBytes))
	}
	return nil
}

func validateVideo(file *FileUpload) error {
	if !allowedVideoTypes[file.ContentType] {
		return dErrors.New(dErrors.CodeValidation, "video must be an MP4 or MOV file")
	}
	if file.Size > MaxVideoBytes {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("video must be at most %d bytes", MaxVideoBytes))
	}
	return nil
}

// Apply copies the form's field values onto a registration. Media URLs are
// handled separately so updates can preserve prior uploads.
func (f *SubmissionForm) Apply(reg *Registration) {
	reg.Name = f.Name
	reg.DateOfBirth = f.DateOfBirth
	reg.Gender = f.Gender
	reg.Mobile = f.Mobile
	reg.Email = f.Email
	reg.Aadhaar = f.Aadhaar
	reg.PAN = f.PAN
	reg.Address = f.Address
	reg.State = f.State
	reg.City = f.City
	reg.Pincode = f.Pincode
}
