package students

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdpkitchen/dashboard/apiclient"
	apperrors "github.com/pdpkitchen/dashboard/internal/errors"
	"github.com/pkg/errors"
)

const (
	MaxImageSize    = 5_000_000
	MaxDocumentSize = 10 * 1024 * 1024
)

var (
	acceptedImageTypes    = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	acceptedDocumentTypes = []string{"application/pdf", "image/jpeg", "image/png"}
)

// Upload is a file picked in the student form
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (u *Upload) contentType() string {
	if u.ContentType != "" {
		return strings.ToLower(u.ContentType)
	}
	return http.DetectContentType(u.Data)
}

// Form is the create/edit student form. Optional text fields left empty are
// not sent; uploads are only sent when a file was picked.
type Form struct {
	PINFL               string
	FirstName           string
	LastName            string
	MiddleName          string
	StudentType         StudentType
	Course              int
	UntilDate           string
	IsActive            bool
	Description         string
	BasisDocumentNumber string
	Image               *Upload
	BasisDocumentFile   *Upload
}

func NewForm() Form {
	return Form{StudentType: Scholarship, Course: 1, IsActive: true}
}

// FormFromStudent prefills the edit form. Files are never prefilled.
func FormFromStudent(s Student) Form {
	f := Form{
		PINFL:               s.PINFL,
		FirstName:           s.FirstName,
		LastName:            s.LastName,
		MiddleName:          s.MiddleName,
		StudentType:         s.StudentType,
		Course:              s.Course,
		UntilDate:           s.UntilDate,
		IsActive:            s.IsActive,
		Description:         s.Description,
		BasisDocumentNumber: s.DocumentNumber(),
	}
	if f.StudentType == "" {
		f.StudentType = Scholarship
	}
	if f.Course == 0 {
		f.Course = 1
	}
	return f
}

// ValidationErrors maps a form field to the message shown next to it
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return apperrors.ErrInvalidForm
}

func (f Form) Validate() error {
	errs := ValidationErrors{}

	pinfl := strings.TrimSpace(f.PINFL)
	switch {
	case len(pinfl) < 6:
		errs["pinfl"] = "PINFL kamida 6 ta belgidan iborat bo'lishi kerak"
	case len(pinfl) > 14:
		errs["pinfl"] = "PINFL 14 ta belgidan oshmasligi kerak"
	}
	if len([]rune(strings.TrimSpace(f.FirstName))) < 2 {
		errs["first_name"] = "Ism kamida 2 ta belgidan iborat bo'lishi kerak"
	}
	if len([]rune(strings.TrimSpace(f.LastName))) < 2 {
		errs["last_name"] = "Familiya kamida 2 ta belgidan iborat bo'lishi kerak"
	}
	if !f.StudentType.Valid() {
		errs["student_type"] = "Talaba turi majburiy"
	}
	if f.Course < 1 {
		errs["course"] = "Kurs kamida 1 bo'lishi kerak"
	}
	if !validDate(f.UntilDate) {
		errs["until_date"] = "Noto'g'ri sana formati"
	}

	if f.Image != nil {
		switch {
		case len(f.Image.Data) > MaxImageSize:
			errs["image"] = "Maksimal fayl hajmi 5MB"
		case !contains(acceptedImageTypes, f.Image.contentType()):
			errs["image"] = ".jpg, .jpeg, .png va .webp fayllar qabul qilinadi"
		}
	}
	if f.BasisDocumentFile != nil {
		switch {
		case len(f.BasisDocumentFile.Data) > MaxDocumentSize:
			errs["basis_document_file"] = "Maksimal fayl hajmi 10MB"
		case !contains(acceptedDocumentTypes, f.BasisDocumentFile.contentType()):
			errs["basis_document_file"] = "Faqat .pdf, .jpg, .png fayllar qabul qilinadi"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Multipart encodes the form the way the API expects it
func (f Form) Multipart() (*apiclient.Multipart, error) {
	b := apiclient.NewMultipartBuilder().
		Field("pinfl", strings.TrimSpace(f.PINFL)).
		Field("first_name", strings.TrimSpace(f.FirstName)).
		Field("last_name", strings.TrimSpace(f.LastName))
	if f.MiddleName != "" {
		b.Field("middle_name", f.MiddleName)
	}
	b.Field("student_type", string(f.StudentType)).
		Field("course", strconv.Itoa(f.Course)).
		Field("until_date", f.UntilDate).
		Field("is_active", strconv.FormatBool(f.IsActive))
	if f.Image != nil {
		b.File("image", f.Image.Filename, f.Image.contentType(), f.Image.Data)
	}
	if f.Description != "" {
		b.Field("description", f.Description)
	}
	if f.BasisDocumentNumber != "" {
		b.Field("basis_document_number", f.BasisDocumentNumber)
	}
	if f.BasisDocumentFile != nil {
		b.File("basis_document_file", f.BasisDocumentFile.Filename, f.BasisDocumentFile.contentType(), f.BasisDocumentFile.Data)
	}

	payload, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "encode student form")
	}
	return payload, nil
}

var dateLayouts = []string{time.DateOnly, time.RFC3339}

func validDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
