// Package i18n holds the language-selection state, the message catalog, and
// the userLanguage cookie.
package i18n

import (
	"strings"
	"sync"
)

// State is the language selection: the current code plus every supported code
// in display order.
type State struct {
	Language  string
	Supported []string
}

// IsSupported reports whether lang is one of s.Supported.
func (s State) IsSupported(lang string) bool {
	for _, l := range s.Supported {
		if l == lang {
			return true
		}
	}
	return false
}

// SupportedAsString returns the supported codes joined with commas.
func (s State) SupportedAsString() string {
	return JoinSupported(s.Supported)
}

// Action is a mutation request applied by Reduce.
type Action interface {
	isAction()
}

// ChangeLanguage selects a language. The code is lowercased; unsupported codes
// leave the state unchanged.
type ChangeLanguage struct {
	Language string
}

// SetSupported replaces the supported list. If the current language drops out
// of the list the first remaining code becomes current.
type SetSupported struct {
	Languages []string
}

func (ChangeLanguage) isAction() {}
func (SetSupported) isAction()   {}

// Reduce returns the state that results from applying a to s. s is not modified.
func Reduce(s State, a Action) State {
	next := State{Language: s.Language, Supported: clone(s.Supported)}
	switch a := a.(type) {
	case ChangeLanguage:
		lang := normalize(a.Language)
		if next.IsSupported(lang) {
			next.Language = lang
		}
	case SetSupported:
		langs := make([]string, 0, len(a.Languages))
		for _, l := range a.Languages {
			l = normalize(l)
			if l == "" || strings.Contains(l, ",") || contains(langs, l) {
				continue
			}
			langs = append(langs, l)
		}
		if len(langs) == 0 {
			return next
		}
		next.Supported = langs
		if !next.IsSupported(next.Language) {
			next.Language = langs[0]
		}
	}
	return next
}

// JoinSupported joins codes with commas.
func JoinSupported(langs []string) string {
	return strings.Join(langs, ",")
}

// SplitSupported is the inverse of JoinSupported for codes without embedded
// commas. The empty string yields an empty list.
func SplitSupported(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Store is the process-wide language state. Dispatch is the only writer.
type Store struct {
	mu    sync.RWMutex
	state State

	subsMu sync.Mutex
	subs   []func(State)
}

// NewStore creates a Store whose state is initial normalized through
// SetSupported and ChangeLanguage.
func NewStore(supported []string, defaultLang string) *Store {
	st := Reduce(State{}, SetSupported{Languages: supported})
	st = Reduce(st, ChangeLanguage{Language: defaultLang})
	return &Store{state: st}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Language: s.state.Language, Supported: clone(s.state.Supported)}
}

// Dispatch applies a and returns the new state. Subscribers are notified
// after the lock is released.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := State{Language: s.state.Language, Supported: clone(s.state.Supported)}
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := append([]func(State){}, s.subs...)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to be called with the new state after every Dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func normalize(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
