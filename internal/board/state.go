package board

import (
	"maps"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

// State is everything the board view is derived from. Updates return a
// new State; the receiver is never modified.
type State struct {
	Tasks        []api.Task
	Archived     []api.Task
	Tags         []string
	Query        string
	Sort         map[model.Status]SortMode
	ShowArchived bool
	Window       time.Duration
	Locale       Locale
}

func NewState(window time.Duration, loc Locale) State {
	sort := make(map[model.Status]SortMode, len(model.Statuses))
	for _, s := range model.Statuses {
		sort[s] = SortManual
	}
	return State{Sort: sort, Window: window, Locale: loc}
}

func (s State) WithTasks(tasks []api.Task) State {
	s.Tasks = tasks
	return s
}

func (s State) WithArchived(tasks []api.Task) State {
	s.Archived = tasks
	return s
}

func (s State) WithTags(tags []string) State {
	s.Tags = tags
	return s
}

func (s State) WithQuery(query string) State {
	s.Query = query
	return s
}

func (s State) WithSort(status model.Status, mode SortMode) State {
	sort := maps.Clone(s.Sort)
	if sort == nil {
		sort = make(map[model.Status]SortMode, 1)
	}
	sort[status] = mode
	s.Sort = sort
	return s
}

func (s State) ToggleArchived() State {
	s.ShowArchived = !s.ShowArchived
	return s
}

// SortFor returns the mode of a column, manual when unset.
func (s State) SortFor(status model.Status) SortMode {
	if mode, ok := s.Sort[status]; ok {
		return mode
	}
	return SortManual
}

// Find looks a task up among the active tasks, then the archived ones.
func (s State) Find(id int64) (api.Task, bool) {
	for _, list := range [][]api.Task{s.Tasks, s.Archived} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return api.Task{}, false
}

// IsArchived reports whether id is in the archived list.
func (s State) IsArchived(id int64) bool {
	for _, t := range s.Archived {
		if t.ID == id {
			return true
		}
	}
	return false
}
