package models

// Task is a single to-do item owned by a user.
type Task struct {
	ID        string `json:"_id"`
	UserID    string `json:"user_id"`
	Task      string `json:"task"`
	IsChecked bool   `json:"isChecked"`
}
