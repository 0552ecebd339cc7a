package cleaning

import (
	"sort"
	"time"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/reservation"
)

// Status is a closed set: a task is either still due or done.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Task is one turnover cleaning, due on a reservation's check-out day.
type Task struct {
	ReservationID reservation.ReservationID
	ApartmentID   catalog.ApartmentID
	DueDate       time.Time
	Status        Status
}

// TasksForReservations derives the cleaning schedule from the reservation
// list: one task per apartment per non-cancelled stay, due at check-out.
// Completed reservations and past check-outs count as done. Output is ordered
// by due date, then apartment, so the schedule is stable.
func TasksForReservations(reservations []*reservation.Reservation, now time.Time) []Task {
	var tasks []Task
	for _, res := range reservations {
		if !res.Blocks() {
			continue
		}
		due := res.Period.CheckOut
		status := StatusPending
		if res.State == reservation.StateCompleted || due.Before(now) {
			status = StatusDone
		}
		for _, apt := range res.Apartments {
			tasks = append(tasks, Task{
				ReservationID: res.ID,
				ApartmentID:   apt,
				DueDate:       due,
				Status:        status,
			})
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return tasks[i].ApartmentID < tasks[j].ApartmentID
	})
	return tasks
}

// Upcoming filters the schedule to tasks still pending at now.
func Upcoming(tasks []Task, now time.Time) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Status == StatusPending && !t.DueDate.Before(now) {
			out = append(out, t)
		}
	}
	return out
}
