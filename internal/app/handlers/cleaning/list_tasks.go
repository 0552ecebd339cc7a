package cleaning

import (
	"context"
	"time"

	"mareblu/internal/app/queries"
	domaincleaning "mareblu/internal/domain/cleaning"
	"mareblu/internal/domain/reservation"
)

const listTasksKey = "cleaning.list_tasks"

type ListTasksQuery struct {
	// UpcomingOnly restricts the schedule to tasks still pending.
	UpcomingOnly bool
}

func (q ListTasksQuery) Key() string { return listTasksKey }

type TaskView struct {
	ReservationID string `json:"reservation_id"`
	ApartmentID   string `json:"apartment_id"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
}

type ListTasksResult struct {
	Tasks []TaskView `json:"tasks"`
}

// ListTasksHandler derives the turnover cleaning schedule from the stored
// reservations; there is no separate task store to drift out of sync.
type ListTasksHandler struct {
	Reservations reservation.Repository
	Now          func() time.Time
}

func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) (*ListTasksResult, error) {
	all, err := h.Reservations.All(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now()
	}
	tasks := domaincleaning.TasksForReservations(all, now)
	if q.UpcomingOnly {
		tasks = domaincleaning.Upcoming(tasks, now)
	}
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{
			ReservationID: string(t.ReservationID),
			ApartmentID:   string(t.ApartmentID),
			DueDate:       t.DueDate.Format("2006-01-02"),
			Status:        string(t.Status),
		})
	}
	return &ListTasksResult{Tasks: views}, nil
}

var _ queries.Handler[ListTasksQuery, *ListTasksResult] = (*ListTasksHandler)(nil)
