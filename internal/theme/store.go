package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Mode is the color scheme preference
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Opposite returns the other mode
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// ParseMode parses "light" or "dark"
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("invalid theme %q: must be light or dark", s)
	}
}

// state is the on-disk preference file
type state struct {
	Theme string `yaml:"theme"`
}

// Store persists the theme preference in a YAML state file
type Store struct {
	path string

	// DetectDark reports the platform preference; nil means lipgloss background detection
	DetectDark func() bool

	mu sync.Mutex
}

// DefaultPath returns ~/.config/palmscan/state.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".palmscan", "state.yaml")
	}
	return filepath.Join(home, ".config", "palmscan", "state.yaml")
}

// NewStore creates a store at path; an empty path uses DefaultPath
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Saved returns the persisted mode, if any
func (s *Store) Saved() (Mode, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved()
}

func (s *Store) saved() (Mode, bool, error) {
	// #nosec G304 - path comes from local configuration
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read theme state: %w", err)
	}

	var st state
	if err := yaml.Unmarshal(data, &st); err != nil {
		return "", false, fmt.Errorf("failed to parse theme state %s: %w", s.path, err)
	}
	if st.Theme == "" {
		return "", false, nil
	}
	mode, err := ParseMode(st.Theme)
	if err != nil {
		return "", false, err
	}
	return mode, true, nil
}

// Load returns the saved mode, else the platform preference.
// An unreadable state file falls back to the platform preference as well.
func (s *Store) Load() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Mode {
	if mode, ok, err := s.saved(); err == nil && ok {
		return mode
	}
	detect := s.DetectDark
	if detect == nil {
		detect = lipgloss.HasDarkBackground
	}
	if detect() {
		return Dark
	}
	return Light
}

// Set persists mode
func (s *Store) Set(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(mode)
}

// Toggle flips the current mode and persists it
func (s *Store) Toggle() (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.load().Opposite()
	if err := s.write(next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) write(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	data, err := yaml.Marshal(&state{Theme: string(mode)})
	if err != nil {
		return fmt.Errorf("failed to marshal theme state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write theme state: %w", err)
	}
	return nil
}
