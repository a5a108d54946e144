package repository

import (
	"context"

	"gorm.io/gorm"

	"planner/models"
	"planner/tracker"
)

// GormHabitRepository 基于 gorm 的习惯仓储
type GormHabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *GormHabitRepository {
	return &GormHabitRepository{db: db}
}

func (r *GormHabitRepository) List(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&habits).Error; err != nil {
		return nil, translate(err)
	}
	return habits, nil
}

func (r *GormHabitRepository) Get(ctx context.Context, id uint) (*models.Habit, error) {
	var h models.Habit
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

func (r *GormHabitRepository) Create(ctx context.Context, h *models.Habit) error {
	return translate(r.db.WithContext(ctx).Omit("Completions").Create(h).Error)
}

func (r *GormHabitRepository) Update(ctx context.Context, h *models.Habit) error {
	res := r.db.WithContext(ctx).Model(&models.Habit{ID: h.ID}).
		Select("name", "icon", "frequency", "goal").
		Updates(h)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL 在值未变化时同样返回 0，需再确认记录是否存在
		if _, err := r.Get(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete 删除习惯及其打卡记录，关联任务的 habit_id 置空
func (r *GormHabitRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("habit_id = ?", id).Update("habit_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", id).Delete(&models.HabitCompletion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Habit{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *GormHabitRepository) Ledger(ctx context.Context, habitID uint) (tracker.Ledger, error) {
	ledgers, err := r.Ledgers(ctx, []uint{habitID})
	if err != nil {
		return nil, err
	}
	return ledgers[habitID], nil
}

func (r *GormHabitRepository) Ledgers(ctx context.Context, habitIDs []uint) (map[uint]tracker.Ledger, error) {
	out := make(map[uint]tracker.Ledger, len(habitIDs))
	for _, id := range habitIDs {
		out[id] = tracker.NewLedger()
	}
	if len(habitIDs) == 0 {
		return out, nil
	}

	var rows []models.HabitCompletion
	err := r.db.WithContext(ctx).
		Select("habit_id", "completed_date").
		Where("habit_id IN ?", habitIDs).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		if l, ok := out[row.HabitID]; ok {
			l[row.CompletedDate] = struct{}{}
		}
	}
	return out, nil
}

// ToggleCompletion 已打卡则删除，未打卡则插入
func (r *GormHabitRepository) ToggleCompletion(ctx context.Context, habitID uint, date tracker.Date) (tracker.ToggleAction, error) {
	var action tracker.ToggleAction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Select("id").First(&habit, habitID).Error; err != nil {
			return err
		}

		res := tx.Where("habit_id = ? AND completed_date = ?", habitID, date).
			Delete(&models.HabitCompletion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			action = tracker.ActionRemoved
			return nil
		}

		if err := tx.Create(&models.HabitCompletion{HabitID: habitID, CompletedDate: date}).Error; err != nil {
			return err
		}
		action = tracker.ActionAdded
		return nil
	})
	if err != nil {
		return "", translate(err)
	}
	return action, nil
}
