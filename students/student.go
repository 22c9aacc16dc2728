package students

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pdpkitchen/dashboard/internal/utils"
)

// Group is the cache group of every students/ read
const Group = "students"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type StudentType string

const (
	Scholarship StudentType = "SCHOLARSHIP"
	Contract    StudentType = "CONTRACT"
)

func (t StudentType) Valid() bool {
	return t == Scholarship || t == Contract
}

// Label is the name shown in the dashboard
func (t StudentType) Label() string {
	switch t {
	case Scholarship:
		return "Grant"
	case Contract:
		return "Kontrakt"
	default:
		return string(t)
	}
}

type Student struct {
	ID                  int         `json:"id"`
	PINFL               string      `json:"pinfl"`
	FirstName           string      `json:"first_name"`
	LastName            string      `json:"last_name"`
	MiddleName          string      `json:"middle_name"`
	StudentType         StudentType `json:"student_type"`
	Course              int         `json:"course"`
	EnrollmentDate      string      `json:"enrollment_date"`
	UntilDate           string      `json:"until_date"`
	IsActive            bool        `json:"is_active"`
	Image               string      `json:"image"`
	Description         string      `json:"description"`
	BasisDocumentNumber *string     `json:"basis_document_number"`
	BasisDocumentFile   *string     `json:"basis_document_file"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName + " " + s.MiddleName)
}

func (s Student) DocumentNumber() string {
	return utils.Value(s.BasisDocumentNumber)
}

func (s Student) DocumentFile() string {
	return utils.Value(s.BasisDocumentFile)
}

// Page is one page of the paginated students listing
type Page struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Student `json:"results"`
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p ListParams) normalised() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Endpoint is the listing endpoint for p, e.g. students/?page=1&page_size=10
func (p ListParams) Endpoint() string {
	p = p.normalised()
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("page_size", strconv.Itoa(p.PageSize))
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return "students/?" + v.Encode()
}

// TotalPages is the number of pages needed for count rows, at least 1
func (p ListParams) TotalPages(count int) int {
	p = p.normalised()
	if count <= 0 {
		return 1
	}
	return (count + p.PageSize - 1) / p.PageSize
}

func DetailEndpoint(id int) string {
	return "students/" + strconv.Itoa(id) + "/"
}
