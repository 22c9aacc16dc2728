package stats

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdpkitchen/dashboard/query"
	"github.com/pkg/errors"
)

const (
	DefaultNotEatingDays   = 10
	DefaultNotEatingCourse = 1
	DefaultStudentType     = "SCHOLARSHIP"
)

var ErrInvalidRange = errors.New("start date must not be after end date")

type RangeParams struct {
	StartDate   string // YYYY-MM-DD
	EndDate     string
	Course      int // 0 means every course
	StudentType string
}

func (p RangeParams) Validate() error {
	start, err := time.Parse(time.DateOnly, p.StartDate)
	if err != nil {
		return errors.Wrap(err, "start date")
	}
	end, err := time.Parse(time.DateOnly, p.EndDate)
	if err != nil {
		return errors.Wrap(err, "end date")
	}
	if start.After(end) {
		return ErrInvalidRange
	}
	return nil
}

func (p RangeParams) Endpoint() string {
	v := url.Values{}
	v.Set("start_date", p.StartDate)
	v.Set("end_date", p.EndDate)
	if p.Course > 0 {
		v.Set("course", strconv.Itoa(p.Course))
	}
	if p.StudentType != "" {
		v.Set("student_type", p.StudentType)
	}
	return "stats/by-range/?" + v.Encode()
}

type NotEatingParams struct {
	Days        int
	Course      int
	StudentType string
}

// DefaultNotEatingParams are the filters the alerts page opens with
func DefaultNotEatingParams() NotEatingParams {
	return NotEatingParams{Days: DefaultNotEatingDays, Course: DefaultNotEatingCourse, StudentType: DefaultStudentType}
}

// Endpoint omits zero days or course, student type is always sent
func (p NotEatingParams) Endpoint() string {
	if strings.TrimSpace(p.StudentType) == "" {
		p.StudentType = DefaultStudentType
	}
	v := url.Values{}
	if p.Days > 0 {
		v.Set("days", strconv.Itoa(p.Days))
	}
	if p.Course > 0 {
		v.Set("course", strconv.Itoa(p.Course))
	}
	v.Set("student_type", p.StudentType)
	return "stats/students-not-eating/?" + v.Encode()
}

type Service struct {
	q *query.Client
}

func NewService(q *query.Client) *Service {
	return &Service{q: q}
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	return query.Fetch[Overview](ctx, s.q, "stats/overview/")
}

func (s *Service) ByRange(ctx context.Context, params RangeParams) (RangeReport, error) {
	if err := params.Validate(); err != nil {
		return RangeReport{}, err
	}
	return query.Fetch[RangeReport](ctx, s.q, params.Endpoint())
}

func (s *Service) NotEating(ctx context.Context, params NotEatingParams) (NotEatingReport, error) {
	return query.Fetch[NotEatingReport](ctx, s.q, params.Endpoint())
}
