package repository

import (
	"context"

	"gorm.io/gorm"

	"planner/models"
)

// GormTaskRepository 基于 gorm 的任务仓储
type GormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func preloadSubTasks(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

func (r *GormTaskRepository) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Preload("SubTasks", preloadSubTasks)
	if f.GoalID != nil {
		q = q.Where("goal_id = ?", *f.GoalID)
	}
	if f.From != nil {
		q = q.Where("start_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("end_date <= ?", *f.To)
	}
	if f.From != nil || f.To != nil {
		q = q.Order("start_date, time")
	} else {
		q = q.Order("created_at DESC")
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

func (r *GormTaskRepository) Get(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := r.db.WithContext(ctx).Preload("SubTasks", preloadSubTasks).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func insertSubTasks(tx *gorm.DB, taskID uint, subs []models.SubTask) error {
	if len(subs) == 0 {
		return nil
	}
	for i := range subs {
		subs[i].ID = 0
		subs[i].TaskID = taskID
		subs[i].Position = i
	}
	return tx.Create(&subs).Error
}

func (r *GormTaskRepository) Create(ctx context.Context, t *models.Task) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("SubTasks").Create(t).Error; err != nil {
			return err
		}
		if t.SubTasks == nil {
			t.SubTasks = []models.SubTask{}
		}
		return insertSubTasks(tx, t.ID, t.SubTasks)
	}))
}

var taskColumns = []string{
	"text", "time", "start_date", "end_date", "tag", "tag_color", "is_completed",
	"description", "goal_id", "habit_id", "is_repetitive", "repeat_frequency",
}

func (r *GormTaskRepository) Update(ctx context.Context, t *models.Task, replaceSubTasks bool) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.Select("id").First(&existing, t.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{ID: t.ID}).Select(taskColumns).Updates(t).Error; err != nil {
			return err
		}
		if !replaceSubTasks {
			return nil
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		return insertSubTasks(tx, t.ID, t.SubTasks)
	}))
}

// SetCompleted 设置任务完成状态，completeSubTasks 为 true 时同时完成全部子任务
func (r *GormTaskRepository) SetCompleted(ctx context.Context, id uint, completed, completeSubTasks bool) (*models.Task, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{ID: id}).Update("is_completed", completed).Error; err != nil {
			return err
		}
		if completeSubTasks {
			return tx.Model(&models.SubTask{}).Where("task_id = ?", id).Update("completed", true).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, id)
}

// Delete 删除任务及其子任务
func (r *GormTaskRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// AddSubTask 追加子任务，未指定位置时排在末尾
func (r *GormTaskRepository) AddSubTask(ctx context.Context, s *models.SubTask) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.Select("id").First(&existing, s.TaskID).Error; err != nil {
			return err
		}
		if s.Position <= 0 {
			var count int64
			if err := tx.Model(&models.SubTask{}).Where("task_id = ?", s.TaskID).Count(&count).Error; err != nil {
				return err
			}
			s.Position = int(count)
		}
		return tx.Create(s).Error
	}))
}

func (r *GormTaskRepository) UpdateSubTask(ctx context.Context, id uint, text *string, completed *bool) (*models.SubTask, error) {
	updates := map[string]interface{}{}
	if text != nil {
		updates["text"] = *text
	}
	if completed != nil {
		updates["completed"] = *completed
	}

	var s models.SubTask
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.SubTask{ID: s.ID}).Updates(updates).Error; err != nil {
			return err
		}
		if text != nil {
			s.Text = *text
		}
		if completed != nil {
			s.Completed = *completed
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormTaskRepository) DeleteSubTask(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SubTask{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
