package update

import (
	"tidytask/internal/model"
)

// Row is one rendered list entry. Text holds the display form; the
// repository keeps the normalized form for comparisons.
type Row struct {
	ID            string
	Text          string
	Done          bool
	Transitioning bool
}

// RowList is the mutable row state shared between the synchronizer and the
// value-typed Model. It implements reconcile.RowRenderer: the synchronizer
// issues row commands and the view reads the result each frame.
type RowList struct {
	rows         []Row
	emptyVisible bool
}

func NewRowList() *RowList {
	return &RowList{}
}

func (l *RowList) CreateRow(task model.Task, index int) {
	row := Row{ID: task.ID, Text: model.DisplayForm(task.Text), Done: task.Done}
	index = l.clamp(index)
	l.rows = append(l.rows, Row{})
	copy(l.rows[index+1:], l.rows[index:])
	l.rows[index] = row
}

func (l *RowList) MoveRow(id string, index int) {
	at := l.indexOf(id)
	if at < 0 {
		return
	}
	row := l.rows[at]
	l.rows = append(l.rows[:at], l.rows[at+1:]...)
	index = l.clamp(index)
	l.rows = append(l.rows, Row{})
	copy(l.rows[index+1:], l.rows[index:])
	l.rows[index] = row
}

func (l *RowList) RemoveRow(id string) {
	at := l.indexOf(id)
	if at < 0 {
		return
	}
	l.rows = append(l.rows[:at], l.rows[at+1:]...)
}

func (l *RowList) SetRowDone(id string, done bool) {
	if at := l.indexOf(id); at >= 0 {
		l.rows[at].Done = done
	}
}

func (l *RowList) SetRowTransitioning(id string, transitioning bool) {
	if at := l.indexOf(id); at >= 0 {
		l.rows[at].Transitioning = transitioning
	}
}

func (l *RowList) SetEmptyIndicator(visible bool) {
	l.emptyVisible = visible
}

func (l *RowList) Len() int {
	return len(l.rows)
}

func (l *RowList) At(i int) (Row, bool) {
	if i < 0 || i >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[i], true
}

// Rows returns a copy so View can range freely while commands mutate.
func (l *RowList) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *RowList) EmptyVisible() bool {
	return l.emptyVisible
}

func (l *RowList) indexOf(id string) int {
	for i, row := range l.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

func (l *RowList) clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(l.rows) {
		return len(l.rows)
	}
	return index
}
