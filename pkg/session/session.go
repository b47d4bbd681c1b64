// Package session owns the color lists loaded for the lifetime of the process
// and answers ranking queries against them.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BitPonyLLC/colorname/pkg/colordef"
	"github.com/BitPonyLLC/colorname/pkg/colorspace"
	"github.com/BitPonyLLC/colorname/pkg/matcher"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// ErrUnknownList is returned when a list name does not match any loaded list.
var ErrUnknownList = errors.New("unknown color list")

// Session is the set of loaded color lists along with the active color space.
type Session struct {
	log   *zerolog.Logger
	space atomic.String
	mutex sync.RWMutex
	lists []*colordef.List
}

// New creates an empty session comparing colors in space.
func New(log *zerolog.Logger, space colorspace.Space) *Session {
	s := &Session{log: log}
	s.space.Store(string(space))
	return s
}

// Load parses and registers each file in order. A file that fails to parse, or
// whose list name is already loaded, is logged and skipped without affecting
// the others. The failures are returned in the order they occurred.
func (s *Session) Load(paths ...string) []error {
	var failures []error

	for _, path := range paths {
		err := s.load(path)
		if err != nil {
			failures = append(failures, err)
		}
	}

	return failures
}

// Register adds a list unless one with the same name is already present, in
// which case a *colordef.DuplicateNameError is returned.
func (s *Session) Register(l *colordef.List) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.register(l)
}

// AddBuiltin registers the built-in palette. It starts enabled only when no
// other list has been registered yet.
func (s *Session) AddBuiltin() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	l := colordef.Builtin()
	l.Enabled = len(s.lists) == 0

	err := s.register(l)
	if err != nil {
		return err
	}

	s.log.Debug().Str("name", l.Name).Bool("enabled", l.Enabled).Msg("registered builtin colors")
	return nil
}

// Lists returns copies of the registered lists in registration order.
func (s *Session) Lists() []*colordef.List {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	lists := make([]*colordef.List, len(s.lists))
	for i, l := range s.lists {
		lists[i] = l.Clone()
	}

	return lists
}

// Find returns a copy of the list with the given name.
func (s *Session) Find(name string) (*colordef.List, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	l := s.find(name)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, name)
	}

	return l.Clone(), nil
}

// SetEnabled changes whether a list takes part in ranking.
func (s *Session) SetEnabled(name string, enabled bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	l := s.find(name)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrUnknownList, name)
	}

	l.Enabled = enabled
	s.log.Debug().Str("name", name).Bool("enabled", enabled).Msg("toggled color list")
	return nil
}

// Space is the color space Rank compares in.
func (s *Session) Space() colorspace.Space {
	return colorspace.Space(s.space.Load())
}

// SetSpace changes the color space used by Rank.
func (s *Session) SetSpace(space colorspace.Space) {
	old := s.space.Load()
	s.space.Store(string(space))
	if old != string(space) {
		s.log.Debug().Str("space", string(space)).Str("was", old).Msg("changed color space")
	}
}

// Lookup finds a color by name across all lists in registration order. An exact
// match is preferred over a case-insensitive one.
func (s *Session) Lookup(name string) (colorspace.RGBColor, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, l := range s.lists {
		if c, ok := l.Colors[name]; ok {
			return c, true
		}
	}

	for _, l := range s.lists {
		for _, n := range l.Names() {
			if strings.EqualFold(n, name) {
				return l.Colors[n], true
			}
		}
	}

	return colorspace.RGBColor{}, false
}

// Rank orders the colors of the enabled lists by distance to query in the
// session's active space.
func (s *Session) Rank(query colorspace.RGBColor) []matcher.Result {
	results, _ := s.RankWith(query, s.Space(), nil)
	return results
}

// RankWith orders colors in the given space. The overrides map list names to
// an enabled state used for this query only; the session is left untouched.
func (s *Session) RankWith(query colorspace.RGBColor, space colorspace.Space, overrides map[string]bool) ([]matcher.Result, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for name := range overrides {
		if s.find(name) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownList, name)
		}
	}

	lists := s.lists
	if len(overrides) > 0 {
		lists = make([]*colordef.List, len(s.lists))
		for i, l := range s.lists {
			lists[i] = l
			if enabled, ok := overrides[l.Name]; ok && enabled != l.Enabled {
				shallow := *l
				shallow.Enabled = enabled
				lists[i] = &shallow
			}
		}
	}

	return matcher.Rank(query, lists, space), nil
}

//--------------------------------------------------------------------------------
// private

func (s *Session) load(path string) error {
	l, err := colordef.ParseFile(path)
	if err != nil {
		s.log.Warn().Stack().Err(err).Str("path", path).Msg("skipping color definitions")
		return err
	}

	err = s.Register(l)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Str("name", l.Name).Msg("skipping color definitions")
		return err
	}

	s.log.Debug().Str("path", path).Str("name", l.Name).Int("colors", l.Len()).
		Bool("enabled", l.Enabled).Msg("loaded color definitions")
	return nil
}

func (s *Session) register(l *colordef.List) error {
	if s.find(l.Name) != nil {
		return &colordef.DuplicateNameError{Path: l.Path, Name: l.Name}
	}

	s.lists = append(s.lists, l)
	return nil
}

func (s *Session) find(name string) *colordef.List {
	for _, l := range s.lists {
		if l.Name == name {
			return l
		}
	}
	return nil
}
