// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nuvexa-tui/internal/gateway"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// stubGateway records calls and returns canned results.
type stubGateway struct {
	mu sync.Mutex

	chatResp *gateway.ChatResponse
	chatErr  error
	shopResp *gateway.ShopResponse
	shopErr  error
	modes    []model.Mode
	modesErr error
	health   *gateway.HealthStatus

	chatCalls    []chatCall
	shopQueries  []string
	block        chan struct{}
	busyObserved []bool
	store        *Store
}

type chatCall struct {
	message string
	mode    string
	history []gateway.HistoryEntry
}

func (g *stubGateway) SendChatMessage(ctx context.Context, message, mode string, history []gateway.HistoryEntry) (*gateway.ChatResponse, error) {
	g.mu.Lock()
	g.chatCalls = append(g.chatCalls, chatCall{message: message, mode: mode, history: history})
	if g.store != nil {
		g.busyObserved = append(g.busyObserved, g.store.Snapshot().IsBusy)
	}
	block := g.block
	g.mu.Unlock()

	if block != nil {
		<-block
	}
	return g.chatResp, g.chatErr
}

func (g *stubGateway) SearchProducts(ctx context.Context, query string) (*gateway.ShopResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shopQueries = append(g.shopQueries, query)
	return g.shopResp, g.shopErr
}

func (g *stubGateway) ListModes(ctx context.Context) ([]model.Mode, error) {
	return g.modes, g.modesErr
}

func (g *stubGateway) HealthCheck(ctx context.Context) (*gateway.HealthStatus, error) {
	return g.health, nil
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.chatCalls)
}

func newTestStore(gw *stubGateway) *Store {
	var n int
	s := New(gw,
		WithClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("msg_%d", n) }),
	)
	gw.store = s
	return s
}

// =============================================================================
// INITIAL STATE
// =============================================================================

func TestNew_InitialState(t *testing.T) {
	s := New(&stubGateway{})
	snap := s.Snapshot()

	assert.Equal(t, "assistant", snap.ActiveMode)
	assert.Empty(t, snap.AvailableModes)
	assert.Empty(t, snap.History)
	assert.False(t, snap.IsBusy)
	assert.Empty(t, snap.LastError)
}

func TestNew_WithInitialMode(t *testing.T) {
	assert.Equal(t, "shopping", New(&stubGateway{}, WithInitialMode("shopping")).Snapshot().ActiveMode)
	assert.Equal(t, "assistant", New(&stubGateway{}, WithInitialMode("  ")).Snapshot().ActiveMode)
}

// =============================================================================
// MODES
// =============================================================================

func TestLoadAvailableModes_Success(t *testing.T) {
	gw := &stubGateway{modes: []model.Mode{
		{ID: "assistant", Name: "Assistant"},
		{ID: "travel", Name: "Travel"},
		{ID: "shopping", Name: "Shopping"},
	}}
	s := newTestStore(gw)

	s.LoadAvailableModes(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.AvailableModes, 3)
	assert.Equal(t, "travel", snap.AvailableModes[1].ID)
}

func TestLoadAvailableModes_EmptyListKept(t *testing.T) {
	s := newTestStore(&stubGateway{modes: []model.Mode{}})
	s.LoadAvailableModes(context.Background())
	assert.Empty(t, s.Snapshot().AvailableModes)
}

func TestLoadAvailableModes_FailureFallsBack(t *testing.T) {
	gw := &stubGateway{modesErr: &gateway.RequestError{Op: gateway.OpModes, Status: 500, Message: "Failed to fetch modes"}}
	s := newTestStore(gw)

	s.LoadAvailableModes(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.AvailableModes, 2)
	assert.Equal(t, "assistant", snap.AvailableModes[0].ID)
	assert.Equal(t, "shopping", snap.AvailableModes[1].ID)
	assert.Empty(t, snap.LastError, "mode load failures are never surfaced")
}

func TestSelectMode_KeepsHistory(t *testing.T) {
	s := newTestStore(&stubGateway{})
	s.AppendMessage(model.RoleUser, "one", nil)
	s.AppendMessage(model.RoleAssistant, "two", nil)

	s.SelectMode("shopping")

	snap := s.Snapshot()
	assert.Equal(t, "shopping", snap.ActiveMode)
	assert.Len(t, snap.History, 2)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestAppendMessage_AssignsIdentity(t *testing.T) {
	s := newTestStore(&stubGateway{})

	a := s.AppendMessage(model.RoleUser, "first", nil)
	b := s.AppendMessage(model.RoleAssistant, "second", []model.Product{{Name: "A"}, {Name: "B"}})

	assert.Equal(t, "msg_1", a.ID)
	assert.Equal(t, "msg_2", b.ID)
	assert.Less(t, a.Seq, b.Seq)
	assert.Nil(t, a.Products)
	require.Len(t, b.Products, 2)
	assert.Equal(t, "B", b.Products[1].Name)
}

func TestAppendMessage_EmptyProductsNormalised(t *testing.T) {
	s := newTestStore(&stubGateway{})
	msg := s.AppendMessage(model.RoleAssistant, "none", []model.Product{})
	assert.Nil(t, msg.Products)
}

func TestAppendMessage_CallerCannotMutateHistory(t *testing.T) {
	s := newTestStore(&stubGateway{})
	products := []model.Product{{Name: "Lamp"}}
	s.AppendMessage(model.RoleAssistant, "x", products)

	products[0].Name = "changed"
	snap := s.Snapshot()
	snap.History[0].Products[0].Name = "also changed"

	assert.Equal(t, "Lamp", s.Snapshot().History[0].Products[0].Name)
}

func TestResetHistory(t *testing.T) {
	gw := &stubGateway{chatErr: errors.New("boom")}
	s := newTestStore(gw)
	s.SendUserMessage(context.Background(), "hello")
	require.NotEmpty(t, s.Snapshot().LastError)

	s.ResetHistory()

	snap := s.Snapshot()
	assert.Empty(t, snap.History)
	assert.Equal(t, "boom", snap.LastError, "reset only clears history")
}

// =============================================================================
// SEND USER MESSAGE
// =============================================================================

func TestSendUserMessage_Success(t *testing.T) {
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "Hi there"}}
	s := newTestStore(gw)

	ok := s.SendUserMessage(context.Background(), "Hello")
	require.True(t, ok)

	snap := s.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, model.RoleUser, snap.History[0].Role)
	assert.Equal(t, "Hello", snap.History[0].Content)
	assert.Equal(t, model.RoleAssistant, snap.History[1].Role)
	assert.Equal(t, "Hi there", snap.History[1].Content)
	assert.Nil(t, snap.History[1].Products)
	assert.False(t, snap.IsBusy)
	assert.Empty(t, snap.LastError)
}

func TestSendUserMessage_TrimsAndSendsActiveMode(t *testing.T) {
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "ok"}}
	s := newTestStore(gw)
	s.SelectMode("shopping")

	s.SendUserMessage(context.Background(), "  running shoes \n")

	require.Len(t, gw.chatCalls, 1)
	assert.Equal(t, "running shoes", gw.chatCalls[0].message)
	assert.Equal(t, "shopping", gw.chatCalls[0].mode)
	assert.Equal(t, "running shoes", s.Snapshot().History[0].Content)
}

func TestSendUserMessage_HistoryExcludesNewMessage(t *testing.T) {
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "reply"}}
	s := newTestStore(gw)

	s.SendUserMessage(context.Background(), "first")
	s.SendUserMessage(context.Background(), "second")

	require.Len(t, gw.chatCalls, 2)
	assert.Empty(t, gw.chatCalls[0].history)
	assert.NotNil(t, gw.chatCalls[0].history)
	assert.Equal(t, []gateway.HistoryEntry{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
	}, gw.chatCalls[1].history)
}

func TestSendUserMessage_BusyDuringCall(t *testing.T) {
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "ok"}}
	s := newTestStore(gw)

	s.SendUserMessage(context.Background(), "hi")

	require.Len(t, gw.busyObserved, 1)
	assert.True(t, gw.busyObserved[0], "store must be busy while the request is in flight")
	assert.False(t, s.Snapshot().IsBusy)
}

func TestSendUserMessage_EmptyIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\n", " \t\n "} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "x"}}
			s := newTestStore(gw)

			ok := s.SendUserMessage(context.Background(), text)

			assert.False(t, ok)
			snap := s.Snapshot()
			assert.Empty(t, snap.History)
			assert.False(t, snap.IsBusy)
			assert.Equal(t, 0, gw.calls())
		})
	}
}

func TestSendUserMessage_WhileBusyIsNoop(t *testing.T) {
	gw := &stubGateway{
		chatResp: &gateway.ChatResponse{Message: "done"},
		block:    make(chan struct{}),
	}
	s := newTestStore(gw)

	finished := make(chan bool)
	go func() {
		finished <- s.SendUserMessage(context.Background(), "first")
	}()

	require.Eventually(t, func() bool { return gw.calls() == 1 }, time.Second, time.Millisecond)
	require.True(t, s.Snapshot().IsBusy)

	ok := s.SendUserMessage(context.Background(), "second")
	assert.False(t, ok)
	assert.Len(t, s.Snapshot().History, 1, "rejected send must not append")
	assert.Equal(t, 1, gw.calls(), "no duplicate in-flight request")

	close(gw.block)
	assert.True(t, <-finished)

	snap := s.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, "done", snap.History[1].Content)
	assert.False(t, snap.IsBusy)
}

func TestSendUserMessage_FailureAppendsPlaceholder(t *testing.T) {
	gw := &stubGateway{chatErr: &gateway.RequestError{Op: gateway.OpChat, Status: 429, Message: "rate limited"}}
	s := newTestStore(gw)
	s.AppendMessage(model.RoleUser, "earlier", nil)
	before := len(s.Snapshot().History)

	ok := s.SendUserMessage(context.Background(), "hello")
	require.True(t, ok)

	snap := s.Snapshot()
	assert.Len(t, snap.History, before+2)
	assert.Equal(t, "rate limited", snap.LastError)
	last, _ := snap.LastMessage()
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, ErrorPlaceholder, last.Content)
	assert.False(t, snap.IsBusy)
}

func TestSendUserMessage_ClearsPreviousError(t *testing.T) {
	gw := &stubGateway{chatErr: errors.New("first failure")}
	s := newTestStore(gw)
	s.SendUserMessage(context.Background(), "one")
	require.Equal(t, "first failure", s.Snapshot().LastError)

	gw.chatErr = nil
	gw.chatResp = &gateway.ChatResponse{Message: "fine"}
	s.SendUserMessage(context.Background(), "two")

	assert.Empty(t, s.Snapshot().LastError)
}

func TestSendUserMessage_ProductsRoundTrip(t *testing.T) {
	products := []model.Product{
		{Name: "A", Price: 1},
		{Name: "B", Price: 2},
		{Name: "C", Price: 3},
	}
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "found", Products: products}}
	s := newTestStore(gw)

	s.SendUserMessage(context.Background(), "stuff")

	last, ok := s.Snapshot().LastMessage()
	require.True(t, ok)
	require.Len(t, last.Products, 3)
	for i, p := range products {
		assert.Equal(t, p.Name, last.Products[i].Name)
	}
}

// =============================================================================
// SPLIT LIFECYCLE
// =============================================================================

func TestBeginSend_CompleteSend(t *testing.T) {
	gw := &stubGateway{}
	s := newTestStore(gw)

	req, ok := s.BeginSend("hi")
	require.True(t, ok)
	assert.True(t, s.Snapshot().IsBusy)
	assert.Len(t, s.Snapshot().History, 1)

	_, ok = s.BeginSend("again")
	assert.False(t, ok)

	s.Complete(Result{Request: req, Chat: &gateway.ChatResponse{Message: "hello"}})

	snap := s.Snapshot()
	assert.False(t, snap.IsBusy)
	require.Len(t, snap.History, 2)
	assert.Equal(t, "hello", snap.History[1].Content)
}

func TestBeginSend_ModeCapturedAtSend(t *testing.T) {
	s := newTestStore(&stubGateway{})

	req, ok := s.BeginSend("hi")
	require.True(t, ok)
	s.SelectMode("shopping")

	assert.Equal(t, "assistant", req.Mode)
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearchProducts_Success(t *testing.T) {
	gw := &stubGateway{shopResp: &gateway.ShopResponse{
		Query:    "lamp",
		Products: []model.Product{{Name: "Desk Lamp"}, {Name: "Floor Lamp"}},
	}}
	s := newTestStore(gw)

	require.True(t, s.SearchProducts(context.Background(), " lamp "))

	assert.Equal(t, []string{"lamp"}, gw.shopQueries)
	snap := s.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, "/shop lamp", snap.History[0].Content)
	assert.Equal(t, `Found 2 products for "lamp"`, snap.History[1].Content)
	assert.Len(t, snap.History[1].Products, 2)
	assert.False(t, snap.IsBusy)
}

func TestSearchProducts_NoResults(t *testing.T) {
	s := newTestStore(&stubGateway{shopResp: &gateway.ShopResponse{}})
	s.SearchProducts(context.Background(), "unicorn")

	last, _ := s.Snapshot().LastMessage()
	assert.Equal(t, `No products found for "unicorn"`, last.Content)
	assert.Nil(t, last.Products)
}

func TestSearchProducts_Failure(t *testing.T) {
	s := newTestStore(&stubGateway{shopErr: &gateway.RequestError{Op: gateway.OpShop, Message: "Failed to search products"}})
	s.SearchProducts(context.Background(), "lamp")

	snap := s.Snapshot()
	assert.Equal(t, "Failed to search products", snap.LastError)
	last, _ := snap.LastMessage()
	assert.Equal(t, ErrorPlaceholder, last.Content)
}

func TestSearchProducts_EmptyIsNoop(t *testing.T) {
	gw := &stubGateway{}
	s := newTestStore(gw)
	assert.False(t, s.SearchProducts(context.Background(), "  "))
	assert.Empty(t, gw.shopQueries)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	gw := &stubGateway{chatResp: &gateway.ChatResponse{Message: "ok"}}
	s := newTestStore(gw)

	var busyStates []bool
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		busyStates = append(busyStates, snap.IsBusy)
	})

	s.SendUserMessage(context.Background(), "hi")
	assert.Equal(t, []bool{true, false}, busyStates)

	unsubscribe()
	s.SelectMode("shopping")
	assert.Len(t, busyStates, 2)
}

// =============================================================================
// SNAPSHOT HELPERS
// =============================================================================

func TestSnapshot_NextMode(t *testing.T) {
	snap := Snapshot{ActiveMode: "assistant", AvailableModes: model.FallbackModes()}
	assert.Equal(t, "shopping", snap.NextMode(1))
	assert.Equal(t, "shopping", snap.NextMode(-1))

	snap.ActiveMode = "shopping"
	assert.Equal(t, "assistant", snap.NextMode(1))

	snap.ActiveMode = "unknown"
	assert.Equal(t, "assistant", snap.NextMode(1))
	assert.Equal(t, "shopping", snap.NextMode(-1))

	assert.Equal(t, "solo", Snapshot{ActiveMode: "solo"}.NextMode(1))
}

func TestSnapshot_LastAssistantMessage(t *testing.T) {
	s := newTestStore(&stubGateway{})
	_, ok := s.Snapshot().LastAssistantMessage()
	assert.False(t, ok)

	s.AppendMessage(model.RoleAssistant, "answer", nil)
	s.AppendMessage(model.RoleUser, "question", nil)

	msg, ok := s.Snapshot().LastAssistantMessage()
	require.True(t, ok)
	assert.Equal(t, "answer", msg.Content)
}
