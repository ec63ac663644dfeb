package tracker

import (
	"context"
	"fmt"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/metrics"
)

// TaskRepository adds deletion and the task shortcuts. Tasks are the only
// kind that can be removed.
type TaskRepository struct {
	*Repository[domain.Task, *domain.Task]
}

// Delete removes the task with the given id. found is false, and nothing
// is saved, when there is no such task.
func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	doc := r.core.store.Load(ctx)
	idx := indexOf[domain.Task](doc.Tasks, id)
	if idx < 0 {
		return false, nil
	}
	doc.Tasks = append(doc.Tasks[:idx], doc.Tasks[idx+1:]...)

	if err := r.core.store.Save(ctx, doc); err != nil {
		return true, fmt.Errorf("delete task %s: %w", id, err)
	}

	metrics.RecordMutations.WithLabelValues(string(domain.KindTask), "delete").Inc()
	r.core.log.Debug("record deleted", map[string]interface{}{"kind": domain.KindTask, "id": id})
	return true, nil
}

// Toggle flips the completed flag
func (r *TaskRepository) Toggle(ctx context.Context, id string) (domain.Task, bool, error) {
	return r.UpdateFunc(ctx, id, func(t *domain.Task) bool {
		t.Completed = !t.Completed
		return true
	})
}

// Snooze moves the due date to the calendar day days from today
func (r *TaskRepository) Snooze(ctx context.Context, id string, days int) (domain.Task, bool, error) {
	due := domain.DateOf(r.core.now().AddDate(0, 0, days))
	return r.UpdateFunc(ctx, id, func(t *domain.Task) bool {
		t.DueDate = due
		return true
	})
}
