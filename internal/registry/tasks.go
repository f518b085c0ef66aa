package registry

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/coinboard/backend/internal/models"
)

type Tasks struct {
	byID  map[uuid.UUID]*models.Task
	order []uuid.UUID // head = most recently posted
}

func NewTasks() *Tasks {
	return &Tasks{byID: make(map[uuid.UUID]*models.Task)}
}

// Insert records a new task at the head of the recency order.
func (t *Tasks) Insert(task *models.Task) {
	t.byID[task.ID] = task
	t.order = append([]uuid.UUID{task.ID}, t.order...)
}

// Get returns the live task record for id.
func (t *Tasks) Get(id uuid.UUID) (*models.Task, error) {
	task, ok := t.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return task, nil
}

// List returns every task, most-recent-first.
func (t *Tasks) List() []*models.Task {
	out := make([]*models.Task, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// taskSource implements fuzzy.Source over title, description and tags.
type taskSource []*models.Task

func (s taskSource) Len() int { return len(s) }

func (s taskSource) String(i int) string {
	task := s[i]
	return strings.ToLower(task.Title + " " + task.Description + " " + strings.Join(task.Tags, " "))
}

// Search returns tasks matching the free-text query, best match first.
// An empty query returns the full list in recency order.
func (t *Tasks) Search(query string) []*models.Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return t.List()
	}
	source := taskSource(t.List())
	matches := fuzzy.FindFrom(query, source)
	out := make([]*models.Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, source[m.Index])
	}
	return out
}
