package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdpkitchen/dashboard/apiclient"
	apperrors "github.com/pdpkitchen/dashboard/internal/errors"
	"github.com/pdpkitchen/dashboard/students"
	"github.com/rs/zerolog"
)

const (
	msgStudentCreated  = "Talaba muvaffaqiyatli qo'shildi!"
	msgStudentUpdated  = "Talaba ma'lumotlari yangilandi!"
	msgStudentDeleted  = "Talaba muvaffaqiyatli o'chirildi!"
	msgStudentNotFound = "Talaba topilmadi"
	msgFailurePrefix   = "Xatolik: "

	// room for both uploads plus the text fields
	maxStudentFormBytes = students.MaxImageSize + students.MaxDocumentSize + 1<<20
)

var perPageOptions = []int{10, 20, 50}

// StudentListPageData is one page of the students table
type StudentListPageData struct {
	Rows           []students.Student
	Count          int
	Page           int
	PerPage        int
	PerPageOptions []int
	Search         string
	TotalPages     int
}

func (d StudentListPageData) HasPrev() bool { return d.Page > 1 }
func (d StudentListPageData) HasNext() bool { return d.Page < d.TotalPages }

// PageURL links to another page of the same listing
func (d StudentListPageData) PageURL(page int) string {
	return studentListURL(students.ListParams{Page: page, PageSize: d.PerPage, Search: d.Search})
}

func studentListURL(p students.ListParams) string {
	u := RouteStudents + "?page=" + strconv.Itoa(p.Page) + "&perPage=" + strconv.Itoa(p.PageSize)
	if p.Search != "" {
		u += "&search=" + url.QueryEscape(p.Search)
	}
	return u
}

// StudentFormPageData backs both the create and the edit form
type StudentFormPageData struct {
	StudentID int // zero while creating
	Student   *students.Student
	Form      students.Form
	Errors    students.ValidationErrors
	Action    string
	Types     []students.StudentType
}

func (d StudentFormPageData) Editing() bool { return d.StudentID != 0 }

func (s *Server) StudentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := students.ListParams{Page: students.DefaultPage, PageSize: students.DefaultPageSize, Search: strings.TrimSpace(q.Get("search"))}
		if page, ok := positiveInt(q.Get("page")); ok {
			params.Page = page
		}
		if perPage, ok := positiveInt(q.Get("perPage")); ok {
			params.PageSize = perPage
		}

		result, err := s.studentsFor(r).List(r.Context(), params)
		if err != nil {
			s.renderError(w, r, "Talabalar", err)
			return
		}

		data := StudentListPageData{
			Rows:           result.Results,
			Count:          result.Count,
			Page:           params.Page,
			PerPage:        params.PageSize,
			PerPageOptions: perPageOptions,
			Search:         params.Search,
			TotalPages:     params.TotalPages(result.Count),
		}
		s.render(w, r, http.StatusOK, "students.html", s.page(r, "Talabalar", "students", data))
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, ok := s.studentFromPath(w, r, "id")
		if !ok {
			return
		}
		s.render(w, r, http.StatusOK, "profile.html", s.page(r, student.FullName(), "students", student))
	}
}

func (s *Server) StudentNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderStudentForm(w, r, http.StatusOK, StudentFormPageData{Form: students.NewForm()}, "")
	}
}

func (s *Server) StudentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseStudentForm(w, r)
		if err != nil {
			s.renderStudentForm(w, r, http.StatusBadRequest, StudentFormPageData{Form: form}, msgFailurePrefix+err.Error())
			return
		}

		created, err := s.studentsFor(r).Create(r.Context(), form)
		if err != nil {
			s.studentSaveFailed(w, r, StudentFormPageData{Form: form}, err)
			return
		}
		zerolog.Ctx(r.Context()).Info().Int("student_id", created.ID).Msg("student created")
		redirectWithFlash(w, r, RouteStudents, msgStudentCreated)
	}
}

func (s *Server) StudentEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student, ok := s.studentFromPath(w, r, "studentId")
		if !ok {
			return
		}
		data := StudentFormPageData{StudentID: student.ID, Student: &student, Form: students.FormFromStudent(student)}
		s.renderStudentForm(w, r, http.StatusOK, data, "")
	}
}

func (s *Server) StudentUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("studentId"))
		if err != nil || id < 1 {
			s.renderNotFound(w, r)
			return
		}

		form, err := parseStudentForm(w, r)
		data := StudentFormPageData{StudentID: id, Form: form}
		if err != nil {
			s.renderStudentForm(w, r, http.StatusBadRequest, data, msgFailurePrefix+err.Error())
			return
		}

		if _, err := s.studentsFor(r).Update(r.Context(), id, form); err != nil {
			s.studentSaveFailed(w, r, data, err)
			return
		}
		zerolog.Ctx(r.Context()).Info().Int("student_id", id).Msg("student updated")
		redirectWithFlash(w, r, RouteStudents, msgStudentUpdated)
	}
}

// StudentDeleteHandler deletes a student and returns to the listing, which
// is fetched again because the delete invalidated it
func (s *Server) StudentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("studentId"))
		if err != nil || id < 1 {
			s.renderNotFound(w, r)
			return
		}

		if err := s.studentsFor(r).Delete(r.Context(), id); err != nil {
			if apiclient.IsAuthExpired(err) {
				redirectWithError(w, r, RouteSignIn, msgSessionExpired)
				return
			}
			zerolog.Ctx(r.Context()).Warn().Err(err).Int("student_id", id).Msg("student delete failed")
			redirectWithError(w, r, RouteStudents, msgFailurePrefix+err.Error())
			return
		}
		zerolog.Ctx(r.Context()).Info().Int("student_id", id).Msg("student deleted")
		redirectWithFlash(w, r, RouteStudents, msgStudentDeleted)
	}
}

func (s *Server) studentFromPath(w http.ResponseWriter, r *http.Request, name string) (students.Student, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 1 {
		s.renderNotFound(w, r)
		return students.Student{}, false
	}
	student, err := s.studentsFor(r).Get(r.Context(), id)
	if err != nil {
		s.renderError(w, r, msgStudentNotFound, err)
		return students.Student{}, false
	}
	return student, true
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, msgStudentNotFound, "students", nil)
	data.Error = msgStudentNotFound
	s.render(w, r, http.StatusNotFound, "error.html", data)
}

// studentSaveFailed re-renders the form. Validation failures are shown next
// to their fields, API failures above the form.
func (s *Server) studentSaveFailed(w http.ResponseWriter, r *http.Request, data StudentFormPageData, err error) {
	var invalid students.ValidationErrors
	if apperrors.As(err, &invalid) {
		data.Errors = invalid
		s.renderStudentForm(w, r, http.StatusUnprocessableEntity, data, "")
		return
	}
	if apiclient.IsAuthExpired(err) {
		redirectWithError(w, r, RouteSignIn, msgSessionExpired)
		return
	}
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("student_id", data.StudentID).Msg("student save failed")
	s.renderStudentForm(w, r, statusFor(err), data, msgFailurePrefix+err.Error())
}

func (s *Server) renderStudentForm(w http.ResponseWriter, r *http.Request, status int, data StudentFormPageData, errorMsg string) {
	title := "Yangi talaba"
	data.Action = RouteStudents
	if data.Editing() {
		title = "Talabani tahrirlash"
		data.Action = "/dashboard/student/" + strconv.Itoa(data.StudentID)
	}
	data.Types = []students.StudentType{students.Scholarship, students.Contract}

	page := s.page(r, title, "students", data)
	if errorMsg != "" {
		page.Error = errorMsg
	}
	s.render(w, r, status, "student_form.html", page)
}

// parseStudentForm reads the multipart student form. Uploads are read one
// byte past their limit so validation can reject them.
func parseStudentForm(w http.ResponseWriter, r *http.Request) (students.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStudentFormBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil && !apperrors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if apperrors.As(err, &tooLarge) {
			return students.NewForm(), apperrors.ErrFileTooLarge
		}
		return students.NewForm(), apperrors.Wrapf(err, "parse student form")
	}

	form := students.Form{
		PINFL:               strings.TrimSpace(r.FormValue("pinfl")),
		FirstName:           strings.TrimSpace(r.FormValue("first_name")),
		LastName:            strings.TrimSpace(r.FormValue("last_name")),
		MiddleName:          strings.TrimSpace(r.FormValue("middle_name")),
		StudentType:         students.StudentType(r.FormValue("student_type")),
		UntilDate:           strings.TrimSpace(r.FormValue("until_date")),
		IsActive:            checked(r.FormValue("is_active")),
		Description:         strings.TrimSpace(r.FormValue("description")),
		BasisDocumentNumber: strings.TrimSpace(r.FormValue("basis_document_number")),
	}
	form.Course, _ = strconv.Atoi(strings.TrimSpace(r.FormValue("course")))

	var err error
	if form.Image, err = readUpload(r, "image", students.MaxImageSize); err != nil {
		return form, err
	}
	if form.BasisDocumentFile, err = readUpload(r, "basis_document_file", students.MaxDocumentSize); err != nil {
		return form, err
	}
	return form, nil
}

func readUpload(r *http.Request, field string, limit int64) (*students.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if apperrors.Is(err, http.ErrMissingFile) || apperrors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.Wrapf(err, "read %s", field)
	}
	defer file.Close()

	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, apperrors.Wrapf(err, "read %s", field)
	}
	return &students.Upload{Filename: header.Filename, ContentType: partContentType(header), Data: data}, nil
}

func partContentType(h *multipart.FileHeader) string {
	ct := h.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		return "" // let the upload sniff it
	}
	return ct
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
