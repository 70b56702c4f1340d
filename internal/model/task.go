package model

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities High < Medium < Low. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (p Priority) Valid() bool {
	return p.Rank() < 4
}

type Task struct {
	ID        int64    `json:"id"`
	UserID    ID       `json:"userId"`
	Text      string   `json:"text"`
	Time      string   `json:"time"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}
