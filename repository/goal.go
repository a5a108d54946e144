package repository

import (
	"context"

	"gorm.io/gorm"

	"planner/models"
)

// GormGoalRepository 基于 gorm 的目标仓储
type GormGoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GormGoalRepository {
	return &GormGoalRepository{db: db}
}

type goalTaskRow struct {
	ID          uint
	GoalID      uint
	IsCompleted bool
}

// attachTaskIDs 根据 tasks.goal_id 填充 Goal.Tasks
func (r *GormGoalRepository) attachTaskIDs(ctx context.Context, goals []models.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	ids := make([]uint, len(goals))
	index := make(map[uint]int, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
		index[g.ID] = i
		goals[i].Tasks = []uint{}
	}

	var rows []goalTaskRow
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("id", "goal_id").
		Where("goal_id IN ?", ids).
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		if i, ok := index[row.GoalID]; ok {
			goals[i].Tasks = append(goals[i].Tasks, row.ID)
		}
	}
	return nil
}

func (r *GormGoalRepository) List(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.attachTaskIDs(ctx, goals); err != nil {
		return nil, translate(err)
	}
	return goals, nil
}

func (r *GormGoalRepository) Get(ctx context.Context, id uint) (*models.Goal, error) {
	var g models.Goal
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	goals := []models.Goal{g}
	if err := r.attachTaskIDs(ctx, goals); err != nil {
		return nil, translate(err)
	}
	return &goals[0], nil
}

func (r *GormGoalRepository) Create(ctx context.Context, g *models.Goal) error {
	if err := r.db.WithContext(ctx).Omit("TaskRefs").Create(g).Error; err != nil {
		return translate(err)
	}
	if g.Tasks == nil {
		g.Tasks = []uint{}
	}
	return nil
}

func (r *GormGoalRepository) Update(ctx context.Context, g *models.Goal) error {
	res := r.db.WithContext(ctx).Model(&models.Goal{ID: g.ID}).
		Select("title", "description", "target_date", "completed").
		Updates(g)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormGoalRepository) ToggleCompleted(ctx context.Context, id uint) (*models.Goal, error) {
	res := r.db.WithContext(ctx).Model(&models.Goal{ID: id}).
		Update("completed", gorm.Expr("NOT completed"))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete 先解除任务关联再删除目标，同一事务
func (r *GormGoalRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("goal_id = ?", id).Update("goal_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Goal{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *GormGoalRepository) TaskStates(ctx context.Context, goalID uint) (map[uint]bool, error) {
	var rows []goalTaskRow
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("id", "goal_id", "is_completed").
		Where("goal_id = ?", goalID).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	states := make(map[uint]bool, len(rows))
	for _, row := range rows {
		states[row.ID] = row.IsCompleted
	}
	return states, nil
}
