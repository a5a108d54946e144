package models

import (
	"time"

	"planner/tracker"
)

// Habit 习惯
type Habit struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Name        string            `json:"name" gorm:"size:100;not null"`
	Icon        string            `json:"icon" gorm:"size:50"`
	Frequency   string            `json:"frequency" gorm:"size:20;not null;default:daily"` // daily / weekly
	Goal        int               `json:"goal" gorm:"not null;default:1"`                  // 每个周期的目标次数，仅用于展示
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Completions []HabitCompletion `json:"-" gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE"`
}

func (Habit) TableName() string {
	return "habits"
}

// HabitCompletion 打卡记录，同一习惯同一天只有一条
type HabitCompletion struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	HabitID       uint         `json:"habit_id" gorm:"not null;uniqueIndex:idx_habit_completed_date"`
	CompletedDate tracker.Date `json:"completed_date" gorm:"not null;uniqueIndex:idx_habit_completed_date"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (HabitCompletion) TableName() string {
	return "habit_completions"
}
