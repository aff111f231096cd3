// Package preferences persists the user's meal/diet filter and the
// back-online flag in a small YAML file.
package preferences

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// Default filter values.
const (
	DefaultMealType = "main course"
	DefaultDietType = "gluten free"
)

// MealAndDietType is the selected recipe filter. IDs are 1-based positions in
// MealTypes and DietTypes; 0 means nothing was explicitly selected.
type MealAndDietType struct {
	MealType   string `yaml:"meal_type" json:"mealType"`
	MealTypeID int    `yaml:"meal_type_id" json:"mealTypeId"`
	DietType   string `yaml:"diet_type" json:"dietType"`
	DietTypeID int    `yaml:"diet_type_id" json:"dietTypeId"`
}

// State is the whole preferences file.
type State struct {
	MealAndDiet MealAndDietType `yaml:"meal_and_diet" json:"mealAndDiet"`
	BackOnline  bool            `yaml:"back_online" json:"backOnline"`
}

// Defaults returns the filter used before anything is saved.
func Defaults() MealAndDietType {
	return MealAndDietType{MealType: DefaultMealType, DietType: DefaultDietType}
}

// Store reads and writes the preferences file. An unreadable or malformed
// file reads as defaults.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore binds a store to path. The file is created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the current state.
func (s *Store) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// MealAndDietType returns the saved filter.
func (s *Store) MealAndDietType() MealAndDietType {
	return s.Load().MealAndDiet
}

// BackOnline returns the saved back-online flag.
func (s *Store) BackOnline() bool {
	return s.Load().BackOnline
}

// SaveMealAndDietType replaces the saved filter.
func (s *Store) SaveMealAndDietType(m MealAndDietType) error {
	return s.update(func(st *State) { st.MealAndDiet = m })
}

// SaveBackOnline replaces the back-online flag.
func (s *Store) SaveBackOnline(v bool) error {
	return s.update(func(st *State) { st.BackOnline = v })
}

func (s *Store) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.read()
	fn(&st)
	return s.write(st)
}

func (s *Store) read() State {
	st := State{MealAndDiet: Defaults()}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Preferences unreadable; using defaults", logfields.Path(s.path), logfields.Error(err))
		}
		return st
	}
	var onDisk State
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		slog.Warn("Preferences malformed; using defaults", logfields.Path(s.path), logfields.Error(err))
		return st
	}
	if onDisk.MealAndDiet.MealType == "" {
		onDisk.MealAndDiet.MealType = DefaultMealType
		onDisk.MealAndDiet.MealTypeID = 0
	}
	if onDisk.MealAndDiet.DietType == "" {
		onDisk.MealAndDiet.DietType = DefaultDietType
		onDisk.MealAndDiet.DietTypeID = 0
	}
	return onDisk
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(st State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return errors.WrapError(err, errors.CategoryPreferences, "failed to encode preferences").Build()
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryPreferences, "failed to create preferences directory").
			WithContext("dir", dir).
			Build()
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return errors.WrapError(err, errors.CategoryPreferences, "failed to create temp preferences file").Build()
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryPreferences, "failed to write preferences").Build()
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryPreferences, "failed to write preferences").Build()
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryPreferences, "failed to replace preferences file").
			WithContext("path", s.path).
			Build()
	}
	return nil
}
