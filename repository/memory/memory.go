// Package memory 提供仓储接口的内存实现，用于测试与本地试用，数据不落盘
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"planner/models"
	"planner/repository"
	"planner/tracker"
)

type state struct {
	mu     sync.Mutex
	nextID uint

	habits      map[uint]models.Habit
	completions map[uint]tracker.Ledger
	goals       map[uint]models.Goal
	tasks       map[uint]models.Task
	expenses    map[uint]models.Expense
	budgets     map[uint]models.Budget
	recurring   map[uint]models.RecurringExpense
	categories  map[uint]models.ExpenseCategory
	taskCats    []models.TaskCategory
	methods     map[uint]models.PaymentMethod
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

// New 创建内存仓储，并写入默认类别、任务标签与支付方式
func New() *repository.Store {
	st := &state{
		habits:      map[uint]models.Habit{},
		completions: map[uint]tracker.Ledger{},
		goals:       map[uint]models.Goal{},
		tasks:       map[uint]models.Task{},
		expenses:    map[uint]models.Expense{},
		budgets:     map[uint]models.Budget{},
		recurring:   map[uint]models.RecurringExpense{},
		categories:  map[uint]models.ExpenseCategory{},
		methods:     map[uint]models.PaymentMethod{},
	}
	for _, c := range models.DefaultExpenseCategories() {
		c.ID = st.id()
		st.categories[c.ID] = c
	}
	for _, c := range models.DefaultTaskCategories() {
		c.ID = st.id()
		st.taskCats = append(st.taskCats, c)
	}
	for _, m := range models.DefaultPaymentMethods() {
		m.ID = st.id()
		st.methods[m.ID] = m
	}

	return &repository.Store{
		Habits:    &habitRepo{st},
		Goals:     &goalRepo{st},
		Tasks:     &taskRepo{st},
		Expenses:  &expenseRepo{st},
		Budgets:   &budgetRepo{st},
		Recurring: &recurringRepo{st},
		Catalog:   &catalogRepo{st},
	}
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func notFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s #%d", repository.ErrNotFound, kind, id)
}

func invalidRef(kind string, id uint) error {
	return fmt.Errorf("%w: %s #%d", repository.ErrInvalidReference, kind, id)
}

// ---- habits ----

type habitRepo struct{ *state }

func (r *habitRepo) List(_ context.Context) ([]models.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Habit, 0, len(r.habits))
	for _, id := range sortedKeys(r.habits) {
		out = append(out, r.habits[id])
	}
	return out, nil
}

func (r *habitRepo) Get(_ context.Context, id uint) (*models.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.habits[id]
	if !ok {
		return nil, notFound("habit", id)
	}
	return &h, nil
}

func (r *habitRepo) Create(_ context.Context, h *models.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.ID = r.id()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	h.Completions = nil
	r.habits[h.ID] = *h
	return nil
}

func (r *habitRepo) Update(_ context.Context, h *models.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.habits[h.ID]
	if !ok {
		return notFound("habit", h.ID)
	}
	h.CreatedAt = old.CreatedAt
	h.UpdatedAt = time.Now()
	r.habits[h.ID] = *h
	return nil
}

func (r *habitRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.habits[id]; !ok {
		return notFound("habit", id)
	}
	for tid, t := range r.tasks {
		if t.HabitID != nil && *t.HabitID == id {
			t.HabitID = nil
			r.tasks[tid] = t
		}
	}
	delete(r.completions, id)
	delete(r.habits, id)
	return nil
}

func (r *habitRepo) Ledger(_ context.Context, habitID uint) (tracker.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.completions[habitID]; ok {
		return l.Clone(), nil
	}
	return tracker.NewLedger(), nil
}

func (r *habitRepo) Ledgers(_ context.Context, habitIDs []uint) (map[uint]tracker.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint]tracker.Ledger, len(habitIDs))
	for _, id := range habitIDs {
		if l, ok := r.completions[id]; ok {
			out[id] = l.Clone()
		} else {
			out[id] = tracker.NewLedger()
		}
	}
	return out, nil
}

func (r *habitRepo) ToggleCompletion(_ context.Context, habitID uint, date tracker.Date) (tracker.ToggleAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.habits[habitID]; !ok {
		return "", notFound("habit", habitID)
	}
	next, action := tracker.Toggle(r.completions[habitID], date)
	r.completions[habitID] = next
	return action, nil
}

// ---- goals ----

type goalRepo struct{ *state }

func (r *goalRepo) withTasks(g models.Goal) models.Goal {
	g.Tasks = []uint{}
	for _, tid := range sortedKeys(r.tasks) {
		if t := r.tasks[tid]; t.GoalID != nil && *t.GoalID == g.ID {
			g.Tasks = append(g.Tasks, tid)
		}
	}
	return g
}

func (r *goalRepo) List(_ context.Context) ([]models.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Goal, 0, len(r.goals))
	for _, id := range sortedKeys(r.goals) {
		out = append(out, r.withTasks(r.goals[id]))
	}
	return out, nil
}

func (r *goalRepo) Get(_ context.Context, id uint) (*models.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	g = r.withTasks(g)
	return &g, nil
}

func (r *goalRepo) Create(_ context.Context, g *models.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.id()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	g.Tasks = []uint{}
	g.TaskRefs = nil
	r.goals[g.ID] = *g
	return nil
}

func (r *goalRepo) Update(_ context.Context, g *models.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.goals[g.ID]
	if !ok {
		return notFound("goal", g.ID)
	}
	g.CreatedAt = old.CreatedAt
	g.UpdatedAt = time.Now()
	g.Tasks = nil
	g.TaskRefs = nil
	r.goals[g.ID] = *g
	return nil
}

func (r *goalRepo) ToggleCompleted(_ context.Context, id uint) (*models.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	g.Completed = !g.Completed
	g.UpdatedAt = time.Now()
	r.goals[id] = g
	g = r.withTasks(g)
	return &g, nil
}

func (r *goalRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[id]; !ok {
		return notFound("goal", id)
	}
	for tid, t := range r.tasks {
		if t.GoalID != nil && *t.GoalID == id {
			t.GoalID = nil
			r.tasks[tid] = t
		}
	}
	delete(r.goals, id)
	return nil
}

func (r *goalRepo) TaskStates(_ context.Context, goalID uint) (map[uint]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uint]bool{}
	for tid, t := range r.tasks {
		if t.GoalID != nil && *t.GoalID == goalID {
			out[tid] = t.IsCompleted
		}
	}
	return out, nil
}

// ---- tasks ----

type taskRepo struct{ *state }

func copyTask(t models.Task) models.Task {
	t.SubTasks = append([]models.SubTask{}, t.SubTasks...)
	return t
}

func (r *taskRepo) checkRefs(t *models.Task) error {
	if t.GoalID != nil {
		if _, ok := r.goals[*t.GoalID]; !ok {
			return invalidRef("goal", *t.GoalID)
		}
	}
	if t.HabitID != nil {
		if _, ok := r.habits[*t.HabitID]; !ok {
			return invalidRef("habit", *t.HabitID)
		}
	}
	return nil
}

func (r *taskRepo) assignSubTasks(taskID uint, subs []models.SubTask) []models.SubTask {
	out := make([]models.SubTask, len(subs))
	for i, s := range subs {
		s.ID = r.id()
		s.TaskID = taskID
		s.Position = i
		out[i] = s
	}
	return out
}

func (r *taskRepo) List(_ context.Context, f repository.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Task{}
	for _, id := range sortedKeys(r.tasks) {
		t := r.tasks[id]
		if f.GoalID != nil && (t.GoalID == nil || *t.GoalID != *f.GoalID) {
			continue
		}
		if f.From != nil && (t.StartDate == nil || t.StartDate.Before(*f.From)) {
			continue
		}
		if f.To != nil && (t.EndDate == nil || t.EndDate.After(*f.To)) {
			continue
		}
		out = append(out, copyTask(t))
	}
	return out, nil
}

func (r *taskRepo) Get(_ context.Context, id uint) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, notFound("task", id)
	}
	t = copyTask(t)
	return &t, nil
}

func (r *taskRepo) Create(_ context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkRefs(t); err != nil {
		return err
	}
	t.ID = r.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	t.SubTasks = r.assignSubTasks(t.ID, t.SubTasks)
	r.tasks[t.ID] = copyTask(*t)
	return nil
}

func (r *taskRepo) Update(_ context.Context, t *models.Task, replaceSubTasks bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.tasks[t.ID]
	if !ok {
		return notFound("task", t.ID)
	}
	if err := r.checkRefs(t); err != nil {
		return err
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now()
	if replaceSubTasks {
		t.SubTasks = r.assignSubTasks(t.ID, t.SubTasks)
	} else {
		t.SubTasks = old.SubTasks
	}
	r.tasks[t.ID] = copyTask(*t)
	return nil
}

func (r *taskRepo) SetCompleted(_ context.Context, id uint, completed, completeSubTasks bool) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, notFound("task", id)
	}
	t = copyTask(t)
	t.IsCompleted = completed
	if completeSubTasks {
		for i := range t.SubTasks {
			t.SubTasks[i].Completed = true
		}
	}
	r.tasks[id] = t
	out := copyTask(t)
	return &out, nil
}

func (r *taskRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return notFound("task", id)
	}
	delete(r.tasks, id)
	return nil
}

func (r *taskRepo) AddSubTask(_ context.Context, s *models.SubTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[s.TaskID]
	if !ok {
		return notFound("task", s.TaskID)
	}
	t = copyTask(t)
	s.ID = r.id()
	if s.Position <= 0 {
		s.Position = len(t.SubTasks)
	}
	t.SubTasks = append(t.SubTasks, *s)
	r.tasks[t.ID] = t
	return nil
}

func (r *taskRepo) findSubTask(id uint) (uint, int, bool) {
	for tid, t := range r.tasks {
		for i, s := range t.SubTasks {
			if s.ID == id {
				return tid, i, true
			}
		}
	}
	return 0, 0, false
}

func (r *taskRepo) UpdateSubTask(_ context.Context, id uint, text *string, completed *bool) (*models.SubTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tid, i, ok := r.findSubTask(id)
	if !ok {
		return nil, notFound("subtask", id)
	}
	t := copyTask(r.tasks[tid])
	if text != nil {
		t.SubTasks[i].Text = *text
	}
	if completed != nil {
		t.SubTasks[i].Completed = *completed
	}
	r.tasks[tid] = t
	s := t.SubTasks[i]
	return &s, nil
}

func (r *taskRepo) DeleteSubTask(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tid, i, ok := r.findSubTask(id)
	if !ok {
		return notFound("subtask", id)
	}
	t := copyTask(r.tasks[tid])
	t.SubTasks = append(t.SubTasks[:i], t.SubTasks[i+1:]...)
	r.tasks[tid] = t
	return nil
}

// ---- expenses ----

type expenseRepo struct{ *state }

func (r *expenseRepo) withRefs(e models.Expense) models.Expense {
	e.Tags = cloneStrings(e.Tags)
	if c, ok := r.categories[e.CategoryID]; ok {
		e.Category = &c
	}
	if e.PaymentMethodID != nil {
		if m, ok := r.methods[*e.PaymentMethodID]; ok {
			e.PaymentMethod = &m
		}
	}
	return e
}

func (r *expenseRepo) checkRefs(e *models.Expense) error {
	if _, ok := r.categories[e.CategoryID]; !ok {
		return invalidRef("category", e.CategoryID)
	}
	if e.PaymentMethodID != nil {
		if _, ok := r.methods[*e.PaymentMethodID]; !ok {
			return invalidRef("payment method", *e.PaymentMethodID)
		}
	}
	return nil
}

func (r *expenseRepo) inWindow(w tracker.Window) []models.Expense {
	var out []models.Expense
	for _, e := range r.expenses {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func (r *expenseRepo) List(_ context.Context, f repository.ExpenseFilter) ([]models.Expense, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Expense
	for _, e := range r.expenses {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
			continue
		}
		if f.CreatedFrom != nil && e.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && e.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Time != b.Time {
			return a.Time > b.Time
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[f.Offset:]
		}
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	out := make([]models.Expense, len(matched))
	for i, e := range matched {
		out[i] = r.withRefs(e)
	}
	return out, total, nil
}

func (r *expenseRepo) Get(_ context.Context, id uint) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok {
		return nil, notFound("expense", id)
	}
	e = r.withRefs(e)
	return &e, nil
}

func (r *expenseRepo) Create(_ context.Context, e *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkRefs(e); err != nil {
		return err
	}
	e.ID = r.id()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	stored := *e
	stored.Category, stored.PaymentMethod = nil, nil
	stored.Tags = cloneStrings(e.Tags)
	r.expenses[e.ID] = stored
	return nil
}

func (r *expenseRepo) Update(_ context.Context, e *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.expenses[e.ID]
	if !ok {
		return notFound("expense", e.ID)
	}
	if err := r.checkRefs(e); err != nil {
		return err
	}
	stored := *e
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = time.Now()
	stored.RecurringID = old.RecurringID
	stored.Category, stored.PaymentMethod = nil, nil
	stored.Tags = cloneStrings(e.Tags)
	r.expenses[e.ID] = stored
	return nil
}

func (r *expenseRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.expenses[id]; !ok {
		return notFound("expense", id)
	}
	delete(r.expenses, id)
	return nil
}

func (r *expenseRepo) TotalsByCategory(_ context.Context, w tracker.Window) ([]repository.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byCat := map[uint]*repository.CategoryTotal{}
	for _, e := range r.inWindow(w) {
		t, ok := byCat[e.CategoryID]
		if !ok {
			t = &repository.CategoryTotal{CategoryID: e.CategoryID, Total: decimal.Zero}
			byCat[e.CategoryID] = t
		}
		t.Total = t.Total.Add(e.Amount)
		t.Count++
	}
	out := make([]repository.CategoryTotal, 0, len(byCat))
	for _, t := range byCat {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (r *expenseRepo) DailyTotals(_ context.Context, w tracker.Window) ([]repository.DailyTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate := map[tracker.Date]decimal.Decimal{}
	for _, e := range r.inWindow(w) {
		cur, ok := byDate[e.Date]
		if !ok {
			cur = decimal.Zero
		}
		byDate[e.Date] = cur.Add(e.Amount)
	}
	out := make([]repository.DailyTotal, 0, len(byDate))
	for d, total := range byDate {
		out = append(out, repository.DailyTotal{Date: d, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ---- budgets ----

type budgetRepo struct{ *state }

func (r *budgetRepo) List(_ context.Context) ([]models.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Budget, 0, len(r.budgets))
	for _, b := range r.budgets {
		if c, ok := r.categories[b.CategoryID]; ok {
			b.Category = &c
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.StartDate.After(b.StartDate)
	})
	return out, nil
}

func (r *budgetRepo) Upsert(_ context.Context, b *models.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[b.CategoryID]; !ok {
		return invalidRef("category", b.CategoryID)
	}
	now := time.Now()
	for id, old := range r.budgets {
		if old.CategoryID == b.CategoryID && old.Period == b.Period && old.StartDate.Equal(b.StartDate) {
			old.Amount = b.Amount
			old.UpdatedAt = now
			r.budgets[id] = old
			*b = old
			return nil
		}
	}
	b.ID = r.id()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Category = nil
	r.budgets[b.ID] = *b
	return nil
}

// ---- recurring ----

type recurringRepo struct{ *state }

func (r *recurringRepo) List(_ context.Context) ([]models.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.RecurringExpense, 0, len(r.recurring))
	for _, id := range sortedKeys(r.recurring) {
		item := r.recurring[id]
		if c, ok := r.categories[item.CategoryID]; ok {
			item.Category = &c
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *recurringRepo) Active(_ context.Context) ([]models.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RecurringExpense
	for _, id := range sortedKeys(r.recurring) {
		if item := r.recurring[id]; item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *recurringRepo) Get(_ context.Context, id uint) (*models.RecurringExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.recurring[id]
	if !ok {
		return nil, notFound("recurring expense", id)
	}
	return &item, nil
}

func (r *recurringRepo) Create(_ context.Context, item *models.RecurringExpense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[item.CategoryID]; !ok {
		return invalidRef("category", item.CategoryID)
	}
	item.ID = r.id()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	item.Category = nil
	r.recurring[item.ID] = *item
	return nil
}

func (r *recurringRepo) Update(_ context.Context, item *models.RecurringExpense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.recurring[item.ID]
	if !ok {
		return notFound("recurring expense", item.ID)
	}
	if _, ok := r.categories[item.CategoryID]; !ok {
		return invalidRef("category", item.CategoryID)
	}
	item.CreatedAt = old.CreatedAt
	item.UpdatedAt = time.Now()
	item.LastGenerated = old.LastGenerated
	item.Category = nil
	r.recurring[item.ID] = *item
	return nil
}

func (r *recurringRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recurring[id]; !ok {
		return notFound("recurring expense", id)
	}
	for eid, e := range r.expenses {
		if e.RecurringID != nil && *e.RecurringID == id {
			e.RecurringID = nil
			r.expenses[eid] = e
		}
	}
	delete(r.recurring, id)
	return nil
}

func (r *recurringRepo) Materialize(_ context.Context, item *models.RecurringExpense, dates []tracker.Date) ([]models.Expense, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.recurring[item.ID]
	if !ok {
		return nil, notFound("recurring expense", item.ID)
	}

	now := time.Now()
	out := make([]models.Expense, len(dates))
	for i, d := range dates {
		rid := item.ID
		e := models.Expense{
			ID:              r.id(),
			Amount:          item.Amount,
			CategoryID:      item.CategoryID,
			Date:            d,
			Description:     item.Description,
			PaymentMethodID: item.PaymentMethodID,
			Tags:            cloneStrings(item.Tags),
			RecurringID:     &rid,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		r.expenses[e.ID] = e
		out[i] = e
	}
	last := dates[len(dates)-1]
	stored.LastGenerated = &last
	r.recurring[item.ID] = stored
	item.LastGenerated = &last
	return out, nil
}

// ---- catalog ----

type catalogRepo struct{ *state }

func (r *catalogRepo) ExpenseCategories(_ context.Context) ([]models.ExpenseCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ExpenseCategory, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sort != out[j].Sort {
			return out[i].Sort < out[j].Sort
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *catalogRepo) GetExpenseCategory(_ context.Context, id uint) (*models.ExpenseCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, notFound("category", id)
	}
	return &c, nil
}

func (r *catalogRepo) CreateExpenseCategory(_ context.Context, c *models.ExpenseCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: 类别 %s", repository.ErrConflict, c.Name)
		}
	}
	c.ID = r.id()
	c.IsCustom = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.categories[c.ID] = *c
	return nil
}

func (r *catalogRepo) DeleteExpenseCategory(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.expenses {
		if e.CategoryID == id {
			return repository.ErrInUse
		}
	}
	if _, ok := r.categories[id]; !ok {
		return notFound("category", id)
	}
	delete(r.categories, id)
	return nil
}

func (r *catalogRepo) TaskCategories(_ context.Context) ([]models.TaskCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.TaskCategory{}, r.taskCats...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *catalogRepo) PaymentMethods(_ context.Context) ([]models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PaymentMethod, 0, len(r.methods))
	for _, id := range sortedKeys(r.methods) {
		out = append(out, r.methods[id])
	}
	return out, nil
}
