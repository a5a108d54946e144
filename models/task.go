package models

import (
	"time"

	"planner/tracker"
)

// Task 任务
type Task struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Text            string        `json:"text" gorm:"size:255;not null"`
	Time            string        `json:"time" gorm:"size:20"` // 如 10:00 AM / Anytime
	StartDate       *tracker.Date `json:"start_date" gorm:"index"`
	EndDate         *tracker.Date `json:"end_date"`
	Tag             string        `json:"tag" gorm:"size:50"`
	TagColor        string        `json:"tag_color" gorm:"size:20"`
	IsCompleted     bool          `json:"is_completed" gorm:"not null;default:false"`
	Description     string        `json:"description" gorm:"type:text"`
	GoalID          *uint         `json:"goal_id" gorm:"index"`
	HabitID         *uint         `json:"habit_id" gorm:"index"`
	IsRepetitive    bool          `json:"is_repetitive" gorm:"not null;default:false"`
	RepeatFrequency string        `json:"repeat_frequency" gorm:"size:20"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	SubTasks        []SubTask     `json:"sub_tasks" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (Task) TableName() string {
	return "tasks"
}

// SubTask 子任务，随任务删除
type SubTask struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TaskID    uint   `json:"task_id" gorm:"not null;index"`
	Text      string `json:"text" gorm:"size:255;not null"`
	Completed bool   `json:"completed" gorm:"not null;default:false"`
	Position  int    `json:"position" gorm:"not null;default:0"`
}

func (SubTask) TableName() string {
	return "subtasks"
}

// TaskCategory 任务标签
type TaskCategory struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:20;default:#3b82f6"`
}

func (TaskCategory) TableName() string {
	return "task_categories"
}
