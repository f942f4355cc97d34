// Package repository implements the tracker's domain operations on top
// of the JSON store: logging hours, managing goals and tasks, and
// building the dashboard view.
//
// Every operation is load-modify-save over the whole document. The data
// set is a handful of companies with daily entries, so rewriting the
// file on each mutation is deliberate — it keeps the store format dead
// simple and identical to what earlier tracker versions produced.
package repository

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mmr-tortoise/worklog/internal/model"
	"github.com/mmr-tortoise/worklog/internal/schedule"
	"github.com/mmr-tortoise/worklog/internal/store"
)

// Sentinel errors returned by lookup-style operations. Handlers map
// these to 404 responses.
var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrLogNotFound     = errors.New("log entry not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// Repository exposes the tracker operations. The today and remaining
// funcs default to the schedule package and exist as fields so tests can
// pin the clock.
//
// The mutex serializes the load-modify-save cycles: the HTTP server
// handles requests concurrently, and two interleaved saves of the same
// document would silently drop one request's changes.
type Repository struct {
	mu        sync.Mutex
	store     *store.Store
	today     func() string
	remaining func(deadline string, workdaysCount int) int
}

// New creates a Repository over the given store.
func New(s *store.Store) *Repository {
	return &Repository{
		store:     s,
		today:     schedule.Today,
		remaining: schedule.RemainingWorkdays,
	}
}

// LogWork records hours for a company on a date. An empty date means
// today. Logging twice on the same date merges by adding hours; a
// non-empty description replaces the stored one. The company is created
// on first use with no goal.
//
// Returns the effective date the entry was stored under.
func (r *Repository) LogWork(company, date string, hours float64, description string) (string, error) {
	company = strings.TrimSpace(company)
	if err := model.ValidateCompanyName(company); err != nil {
		return "", err
	}
	if err := model.ValidateHours(hours); err != nil {
		return "", err
	}
	if date == "" {
		date = r.today()
	}
	description = strings.TrimSpace(description)

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return "", err
	}

	c := ensureCompany(data, company)

	if existing, ok := c.Log[date]; ok {
		existing.Hours += hours
		if description != "" {
			existing.Description = description
		}
	} else {
		c.Log[date] = &model.LogEntry{Hours: hours, Description: description}
	}

	return date, r.store.Save(data)
}

// SetGoal sets the hour goal, weekly schedule, and deadline for a
// company, creating it if needed. Existing log entries and tasks are
// untouched.
func (r *Repository) SetGoal(company string, goal float64, workdaysCount int, deadline string) error {
	company = strings.TrimSpace(company)
	if err := model.ValidateCompanyName(company); err != nil {
		return err
	}
	if err := model.ValidateGoal(goal); err != nil {
		return err
	}
	if err := model.ValidateWorkdays(workdaysCount); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return err
	}

	c := ensureCompany(data, company)
	c.Goal = goal
	c.WorkdaysCount = workdaysCount
	c.Deadline = deadline

	return r.store.Save(data)
}

// DeleteLog removes the entry for a date. The company itself is pruned
// when nothing else (goal, log, tasks) remains.
func (r *Repository) DeleteLog(company, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return err
	}

	c, ok := data[company]
	if !ok {
		return ErrLogNotFound
	}
	if _, ok := c.Log[date]; !ok {
		return ErrLogNotFound
	}

	delete(c.Log, date)
	if c.Empty() {
		delete(data, company)
	}

	return r.store.Save(data)
}

// AddTask appends a task for a company, creating the company if needed.
// An empty date means today. Task IDs are numeric strings allocated as
// max+1 across every company, so an ID never repeats file-wide.
func (r *Repository) AddTask(company, title, date string) (model.Task, error) {
	company = strings.TrimSpace(company)
	title = strings.TrimSpace(title)
	if err := model.ValidateCompanyName(company); err != nil {
		return model.Task{}, err
	}
	if title == "" {
		return model.Task{}, errors.New("task title must not be empty")
	}
	if date == "" {
		date = r.today()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return model.Task{}, err
	}

	c := ensureCompany(data, company)

	task := model.Task{
		ID:        strconv.Itoa(nextTaskID(data)),
		Title:     title,
		Date:      date,
		Completed: false,
	}
	c.Tasks = append(c.Tasks, task)

	return task, r.store.Save(data)
}

// UpdateTask sets the completion flag on a task.
func (r *Repository) UpdateTask(company, taskID string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return err
	}

	c, ok := data[company]
	if !ok {
		return ErrTaskNotFound
	}
	for i := range c.Tasks {
		if c.Tasks[i].ID == taskID {
			c.Tasks[i].Completed = completed
			return r.store.Save(data)
		}
	}
	return ErrTaskNotFound
}

// DeleteTask removes a task and prunes the company when it becomes
// empty, mirroring DeleteLog.
func (r *Repository) DeleteTask(company, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return err
	}

	c, ok := data[company]
	if !ok {
		return ErrCompanyNotFound
	}

	kept := c.Tasks[:0]
	found := false
	for _, task := range c.Tasks {
		if task.ID == taskID {
			found = true
			continue
		}
		kept = append(kept, task)
	}
	if !found {
		return ErrTaskNotFound
	}
	c.Tasks = kept

	if c.Empty() {
		delete(data, company)
	}

	return r.store.Save(data)
}

// Dashboard builds the derived per-company reports, sorted by company
// name for stable output.
func (r *Repository) Dashboard() ([]model.CompanyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]model.CompanyReport, 0, len(names))
	for _, name := range names {
		reports = append(reports, r.buildReport(name, data[name]))
	}
	return reports, nil
}

// buildReport derives the display numbers for one company.
func (r *Repository) buildReport(name string, c *model.Company) model.CompanyReport {
	var total float64
	for _, entry := range c.Log {
		total += entry.Hours
	}
	total = round1(total)

	remainingHours := c.Goal - total
	if remainingHours < 0 {
		remainingHours = 0
	}

	var progress float64
	if c.Goal > 0 {
		progress = round1(total / c.Goal * 100)
	}

	remainingDays := r.remaining(c.Deadline, c.WorkdaysCount)

	var recommended *float64
	if remainingDays > 0 {
		v := round1(remainingHours / float64(remainingDays))
		recommended = &v
	}

	// Newest-first ordering falls out of the ISO date format: the
	// strings sort lexicographically in chronological order.
	dates := make([]string, 0, len(c.Log))
	for date := range c.Log {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	log := make([]model.DatedEntry, 0, len(dates))
	for _, date := range dates {
		entry := c.Log[date]
		log = append(log, model.DatedEntry{
			Date:        date,
			Hours:       entry.Hours,
			Description: entry.Description,
		})
	}

	return model.CompanyReport{
		Name:             name,
		Goal:             c.Goal,
		Deadline:         c.Deadline,
		WorkdaysCount:    c.WorkdaysCount,
		TotalHours:       total,
		RemainingHours:   remainingHours,
		Progress:         progress,
		RemainingDays:    remainingDays,
		RecommendedHours: recommended,
		Log:              log,
		Tasks:            c.Tasks,
	}
}

// ensureCompany returns the company record, creating a blank one with
// the default every-day schedule on first use.
func ensureCompany(data model.WorkData, name string) *model.Company {
	if c, ok := data[name]; ok {
		if c.Log == nil {
			c.Log = map[string]*model.LogEntry{}
		}
		return c
	}
	c := &model.Company{
		WorkdaysCount: 7,
		Log:           map[string]*model.LogEntry{},
		Tasks:         []model.Task{},
	}
	data[name] = c
	return c
}

// nextTaskID scans every company's tasks and returns max+1, starting
// at 1 for an empty file. Non-numeric IDs (hand-edited files) are
// ignored rather than failing the whole operation.
func nextTaskID(data model.WorkData) int {
	maxID := 0
	for _, c := range data {
		for _, task := range c.Tasks {
			if id, err := strconv.Atoi(task.ID); err == nil && id > maxID {
				maxID = id
			}
		}
	}
	return maxID + 1
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
