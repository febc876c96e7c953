// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side conversation state machine.
//
// A Store owns the active mode, the list of available modes, the message
// history, the busy flag and the last error. Views never mutate that state
// directly; they call Store operations and render Snapshot copies.
//
// At most one chat or search request is in flight at a time. The busy flag
// is the only gate: a send while busy is a no-op, nothing is queued and the
// store never cancels the outstanding request.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// ErrorPlaceholder is appended as the assistant turn when a request fails.
const ErrorPlaceholder = "❌ Sorry, I encountered an error. Please try again."

// Gateway is the backend the store talks to. *gateway.Client implements it.
type Gateway interface {
	SendChatMessage(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (*gateway.ChatResponse, error)
	SearchProducts(ctx context.Context, query string) (*gateway.ShopResponse, error)
	ListModes(ctx context.Context) ([]model.Mode, error)
	HealthCheck(ctx context.Context) (*gateway.HealthStatus, error)
}

// Store is the conversation state machine. It is safe for concurrent use.
type Store struct {
	gw  Gateway
	log *slog.Logger

	now   func() time.Time
	newID func() string

	mu         sync.RWMutex
	activeMode string
	modes      []model.Mode
	history    []model.Message
	busy       bool
	lastError  string
	seq        uint64

	listenersMu  sync.Mutex
	listeners    map[int]func(Snapshot)
	nextListener int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the message ID source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithInitialMode sets the active mode of the new session.
// An empty id keeps the default.
func WithInitialMode(id string) Option {
	return func(s *Store) {
		if id = strings.TrimSpace(id); id != "" {
			s.activeMode = id
		}
	}
}

// New creates a store bound to gw in the initial state: default mode, no
// modes, empty history, not busy, no error.
func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:         gw,
		log:        logger.Component("store"),
		now:        time.Now,
		newID:      model.NewID,
		activeMode: model.DefaultMode,
		modes:      []model.Mode{},
		listeners:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// SNAPSHOTS AND SUBSCRIPTIONS
// =============================================================================

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		ActiveMode:     s.activeMode,
		AvailableModes: append([]model.Mode{}, s.modes...),
		History:        make([]model.Message, len(s.history)),
		IsBusy:         s.busy,
		LastError:      s.lastError,
	}
	for i, msg := range s.history {
		snap.History[i] = msg.Clone()
	}
	return snap
}

// Subscribe registers fn to be called with a fresh snapshot after every
// state change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// notify runs listeners outside the state lock.
func (s *Store) notify() {
	s.listenersMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

// =============================================================================
// SIMPLE OPERATIONS
// =============================================================================

// LoadAvailableModes fetches the backend modes. On failure the two fallback
// modes are used and LastError is left untouched.
func (s *Store) LoadAvailableModes(ctx context.Context) {
	modes, err := s.gw.ListModes(ctx)
	if err != nil {
		s.log.Warn("failed to load modes, using fallback", "error", err)
		modes = model.FallbackModes()
	}
	if modes == nil {
		modes = []model.Mode{}
	}

	s.mu.Lock()
	s.modes = append([]model.Mode{}, modes...)
	s.mu.Unlock()

	s.log.Debug("modes loaded", "count", len(modes))
	s.notify()
}

// SelectMode makes id the active mode. History is not touched.
func (s *Store) SelectMode(id string) {
	s.mu.Lock()
	s.activeMode = id
	s.mu.Unlock()

	s.log.Debug("mode selected", "mode", id)
	s.notify()
}

// AppendMessage appends a new message and returns a copy of it.
func (s *Store) AppendMessage(role model.Role, content string, products []model.Product) model.Message {
	s.mu.Lock()
	msg := s.appendLocked(role, content, products)
	s.mu.Unlock()

	s.notify()
	return msg.Clone()
}

func (s *Store) appendLocked(role model.Role, content string, products []model.Product) model.Message {
	if len(products) == 0 {
		products = nil
	} else {
		cp := make([]model.Product, len(products))
		for i, p := range products {
			cp[i] = p.Clone()
		}
		products = cp
	}

	s.seq++
	msg := model.Message{
		ID:        s.newID(),
		Seq:       s.seq,
		Role:      role,
		Content:   content,
		Products:  products,
		CreatedAt: s.now(),
	}
	s.history = append(s.history, msg)
	return msg
}

// ResetHistory removes every message. LastError is kept.
func (s *Store) ResetHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	s.log.Debug("history reset")
	s.notify()
}

// CheckHealth queries backend health without touching store state.
func (s *Store) CheckHealth(ctx context.Context) (*gateway.HealthStatus, error) {
	return s.gw.HealthCheck(ctx)
}

// =============================================================================
// REQUEST LIFECYCLE
// =============================================================================

// RequestKind distinguishes chat sends from product searches.
type RequestKind int

const (
	RequestChat RequestKind = iota
	RequestSearch
)

// Request is an in-flight backend call started by BeginSend or BeginSearch.
type Request struct {
	Kind    RequestKind
	Text    string
	Mode    string
	History []gateway.HistoryEntry
}

// Result is the outcome of Perform, applied with Complete.
type Result struct {
	Request *Request
	Chat    *gateway.ChatResponse
	Shop    *gateway.ShopResponse
	Err     error
}

// SendUserMessage sends text to the backend and records both turns.
// It returns false without doing anything if the trimmed text is empty or a
// request is already in flight.
func (s *Store) SendUserMessage(ctx context.Context, text string) bool {
	req, ok := s.BeginSend(text)
	if !ok {
		return false
	}
	s.Complete(s.Perform(ctx, req))
	return true
}

// SearchProducts runs a product search and records it as a conversation
// turn. Gating and error handling match SendUserMessage.
func (s *Store) SearchProducts(ctx context.Context, query string) bool {
	req, ok := s.BeginSearch(query)
	if !ok {
		return false
	}
	s.Complete(s.Perform(ctx, req))
	return true
}

// BeginSend performs the synchronous half of a send: it clears the last
// error, appends the user message, captures the prior history and marks the
// store busy. The gateway call is left to Perform.
func (s *Store) BeginSend(text string) (*Request, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, false
	}
	s.lastError = ""
	history := s.historyEntriesLocked()
	s.appendLocked(model.RoleUser, trimmed, nil)
	s.busy = true
	req := &Request{
		Kind:    RequestChat,
		Text:    trimmed,
		Mode:    s.activeMode,
		History: history,
	}
	s.mu.Unlock()

	s.notify()
	return req, true
}

// BeginSearch is BeginSend for a product search.
func (s *Store) BeginSearch(query string) (*Request, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, false
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, false
	}
	s.lastError = ""
	s.appendLocked(model.RoleUser, "/shop "+trimmed, nil)
	s.busy = true
	req := &Request{
		Kind: RequestSearch,
		Text: trimmed,
		Mode: s.activeMode,
	}
	s.mu.Unlock()

	s.notify()
	return req, true
}

// Perform issues the gateway call for req. It does not touch store state
// and may run on any goroutine.
func (s *Store) Perform(ctx context.Context, req *Request) Result {
	res := Result{Request: req}
	switch req.Kind {
	case RequestSearch:
		res.Shop, res.Err = s.gw.SearchProducts(ctx, req.Text)
	default:
		res.Chat, res.Err = s.gw.SendChatMessage(ctx, req.Text, req.Mode, req.History)
	}
	return res
}

// Complete applies a Result: it appends the assistant reply or the error
// placeholder and clears the busy flag.
func (s *Store) Complete(res Result) {
	content, products, err := s.resolve(res)

	s.mu.Lock()
	if err != nil {
		s.lastError = err.Error()
		s.appendLocked(model.RoleAssistant, ErrorPlaceholder, nil)
	} else {
		s.appendLocked(model.RoleAssistant, content, products)
	}
	s.busy = false
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("request failed", "error", err)
	}
	s.notify()
}

// resolve turns a Result into the assistant turn to record.
func (s *Store) resolve(res Result) (string, []model.Product, error) {
	if res.Err != nil {
		return "", nil, res.Err
	}

	kind := RequestChat
	if res.Request != nil {
		kind = res.Request.Kind
	}

	switch kind {
	case RequestSearch:
		if res.Shop == nil {
			return "", nil, errors.New(gateway.OpShop.GenericMessage())
		}
		query := res.Request.Text
		if len(res.Shop.Products) == 0 {
			return fmt.Sprintf("No products found for %q", query), nil, nil
		}
		return foundMessage(len(res.Shop.Products), query), res.Shop.Products, nil
	default:
		if res.Chat == nil {
			return "", nil, errors.New(gateway.OpChat.GenericMessage())
		}
		return res.Chat.Message, res.Chat.Products, nil
	}
}

func foundMessage(n int, query string) string {
	noun := "products"
	if n == 1 {
		noun = "product"
	}
	return fmt.Sprintf("Found %d %s for %q", n, noun, query)
}

// historyEntriesLocked converts the current history to wire entries.
func (s *Store) historyEntriesLocked() []gateway.HistoryEntry {
	entries := make([]gateway.HistoryEntry, len(s.history))
	for i, msg := range s.history {
		entries[i] = gateway.HistoryEntry{Role: msg.Role.String(), Content: msg.Content}
	}
	return entries
}
