package models

import (
	"time"

	"planner/tracker"
)

// Goal 目标，完成状态手动切换，不由任务进度推导
type Goal struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"size:200;not null"`
	Description string        `json:"description" gorm:"type:text"`
	TargetDate  *tracker.Date `json:"target_date"`
	Completed   bool          `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Tasks 关联任务 ID，由 tasks.goal_id 推导
	Tasks    []uint `json:"tasks" gorm:"-"`
	TaskRefs []Task `json:"-" gorm:"foreignKey:GoalID;constraint:OnDelete:SET NULL"`
}

func (Goal) TableName() string {
	return "goals"
}
