package students

import (
	"context"
	"net/http"

	"github.com/pdpkitchen/dashboard/query"
	"github.com/pdpkitchen/dashboard/stats"
	"github.com/pkg/errors"
)

// Service reads and writes student records through the API
type Service struct {
	q *query.Client
}

func NewService(q *query.Client) *Service {
	return &Service{q: q}
}

func (s *Service) List(ctx context.Context, params ListParams) (Page, error) {
	return query.Fetch[Page](ctx, s.q, params.Endpoint())
}

func (s *Service) Get(ctx context.Context, id int) (Student, error) {
	return query.Fetch[Student](ctx, s.q, DetailEndpoint(id))
}

func (s *Service) Create(ctx context.Context, form Form) (Student, error) {
	return s.save(ctx, query.NewMutation[Student](s.q, "students/", http.MethodPost), form)
}

func (s *Service) Update(ctx context.Context, id int, form Form) (Student, error) {
	return s.save(ctx, query.NewMutation[Student](s.q, DetailEndpoint(id), http.MethodPut), form)
}

func (s *Service) save(ctx context.Context, m *query.Mutation[Student], form Form) (Student, error) {
	if err := form.Validate(); err != nil {
		return Student{}, err
	}
	payload, err := form.Multipart()
	if err != nil {
		return Student{}, errors.Wrap(err, "save student")
	}
	// API errors are returned as is; their detail is what the user sees
	return m.Invalidates(Group, stats.Group).Mutate(ctx, payload)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := DeleteStudent(s.q, id).Mutate(ctx, nil)
	return err
}

// DeleteStudent removes a student. On success every cached students listing
// and the stats built from the roster are marked stale so the next read goes
// back to the API.
func DeleteStudent(c *query.Client, id int) *query.Mutation[struct{}] {
	return query.NewMutation[struct{}](c, DetailEndpoint(id), http.MethodDelete).Invalidates(Group, stats.Group)
}
