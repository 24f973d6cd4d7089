package effects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/idilsaglam/items/internal/api"
	"github.com/idilsaglam/items/internal/mockapi"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeAPI records calls and answers from fixed values.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	items []model.Item
	err   error
	gate  chan struct{}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.err
}

func (f *fakeAPI) List(ctx context.Context) ([]model.Item, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return f.items, nil
}

func (f *fakeAPI) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	if err := f.record("create"); err != nil {
		return model.Item{}, err
	}
	return model.Item{ID: "new", Title: d.Title, Description: d.Description}, nil
}

func (f *fakeAPI) Update(ctx context.Context, id model.ID, d model.Draft) (model.Item, error) {
	if err := f.record("update " + id.String()); err != nil {
		return model.Item{}, err
	}
	return model.Item{ID: id, Title: d.Title, Description: d.Description}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id model.ID) error {
	return f.record("delete " + id.String())
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestHandle_Success(t *testing.T) {
	f := &fakeAPI{items: []model.Item{{ID: "1", Title: "a"}}}
	r := NewRunner(f)
	ctx := context.Background()

	tests := []struct {
		name   string
		intent store.Intent
		want   store.Fact
		call   string
	}{
		{"fetch", store.FetchItems(), store.FetchSucceeded{Items: f.items}, "list"},
		{"create", store.CreateItem(model.Draft{Title: "T"}), store.CreateSucceeded{Item: model.Item{ID: "new", Title: "T"}}, "create"},
		{"update", store.UpdateItem("7", model.Draft{Title: "B"}), store.UpdateSucceeded{Item: model.Item{ID: "7", Title: "B"}}, "update 7"},
		{"delete", store.DeleteItem("3"), store.DeleteSucceeded{ID: "3"}, "delete 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(f.Calls())
			assert.Equal(t, tt.want, r.Handle(ctx, tt.intent))
			calls := f.Calls()
			require.Len(t, calls, before+1)
			assert.Equal(t, tt.call, calls[before])
		})
	}
}

func TestHandle_Failure(t *testing.T) {
	f := &fakeAPI{err: errors.New("dial tcp: connection refused")}
	r := NewRunner(f)
	ctx := context.Background()

	tests := []struct {
		intent store.Intent
		want   store.Type
	}{
		{store.FetchItems(), store.FetchItemsFailure},
		{store.CreateItem(model.Draft{Title: "T"}), store.CreateItemFailure},
		{store.UpdateItem("1", model.Draft{Title: "T"}), store.UpdateItemFailure},
		{store.DeleteItem("1"), store.DeleteItemFailure},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			fact := r.Handle(ctx, tt.intent)
			assert.Equal(t, tt.want, fact.Type())
			failed, ok := fact.(store.Failed)
			require.True(t, ok)
			assert.Equal(t, "dial tcp: connection refused", failed.Message)
		})
	}
}

func TestHandle_CreateOverHTTP(t *testing.T) {
	var (
		posts int32
		body  map[string]any
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/items" {
			atomic.AddInt32(&posts, 1)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	r := NewRunner(api.NewClient(api.WithBaseURL(ts.URL)))
	fact := r.Handle(context.Background(), store.CreateItem(model.Draft{Title: "T"}))

	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
	assert.Equal(t, "T", body["title"])
	assert.Equal(t, store.CreateItemFailure, fact.Type())
	assert.Contains(t, fact.(store.Failed).Message, "500")
}

func TestHandle_AgainstDevServer(t *testing.T) {
	srv, err := mockapi.New(mockapi.WithItems(model.Item{ID: "7", Title: "A"}))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	st := store.New()
	r := NewRunner(api.NewClient(api.WithBaseURL(ts.URL + "/api")))
	ctx := context.Background()

	st.Dispatch(r.Handle(ctx, store.FetchItems()))
	st.Dispatch(r.Handle(ctx, store.UpdateItem("7", model.Draft{Title: "B"})))
	st.Dispatch(r.Handle(ctx, store.DeleteItem("missing")))

	s := st.State()
	assert.Equal(t, []model.Item{{ID: "7", Title: "B"}}, s.Items)
	assert.Equal(t, "HTTP error! status: 404", s.Error)
}

func TestRun_EveryIntentConcurrently(t *testing.T) {
	f := &fakeAPI{gate: make(chan struct{})}
	r := NewRunner(f)
	st := store.New()

	intents := make(chan store.Intent)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background(), intents, func(a store.Action) { st.Dispatch(a) })
	}()

	// identical intents are not deduplicated
	intents <- store.CreateItem(model.Draft{Title: "same"})
	intents <- store.CreateItem(model.Draft{Title: "same"})
	intents <- store.FetchItems()

	// all three are in flight at once, blocked on the gate
	require.Eventually(t, func() bool { return len(f.Calls()) == 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, st.State().Loading)

	close(f.gate)
	close(intents)
	require.NoError(t, <-done)

	assert.False(t, st.State().Loading)
	assert.Len(t, f.Calls(), 3)
}

func TestRun_StopsOnContext(t *testing.T) {
	f := &fakeAPI{}
	r := NewRunner(f)
	ctx, cancel := context.WithCancel(context.Background())

	intents := make(chan store.Intent)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, intents, func(store.Action) {})
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_DispatchOrder(t *testing.T) {
	f := &fakeAPI{}
	r := NewRunner(f)

	var (
		mu   sync.Mutex
		seen []store.Type
	)
	intents := make(chan store.Intent, 1)
	intents <- store.DeleteItem("1")
	close(intents)

	require.NoError(t, r.Run(context.Background(), intents, func(a store.Action) {
		mu.Lock()
		seen = append(seen, a.Type())
		mu.Unlock()
	}))
	assert.Equal(t, []store.Type{store.SetLoadingType, store.DeleteItemSuccess}, seen)
}
