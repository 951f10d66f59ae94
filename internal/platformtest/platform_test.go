package platformtest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func intPtr(n int) *int { return &n }

func TestBook_DuplicateBeforeCapacity(t *testing.T) {
	p := New()
	id := p.AddEvent(model.Event{Title: "Gig", TicketsLimit: intPtr(1)})

	require.NoError(t, p.Book(id, "u1"))
	assert.ErrorIs(t, p.Book(id, "u1"), errAlreadyBooked)
	assert.ErrorIs(t, p.Book(id, "u2"), errNoTickets)
	assert.ErrorIs(t, p.Book("missing", "u2"), errNotFound)

	e, ok := p.Event(id)
	require.True(t, ok)
	assert.Equal(t, 1, e.TicketsBooked)
	assert.Equal(t, 0, e.TicketsAvailable)
	assert.False(t, e.IsAvailable)
}

func TestBook_Unlimited(t *testing.T) {
	p := New()
	id := p.AddEvent(model.Event{Title: "Open day"})

	for _, u := range []model.ID{"a", "b", "c"} {
		require.NoError(t, p.Book(id, u))
	}
	e, _ := p.Event(id)
	assert.True(t, e.IsAvailable)
	assert.Equal(t, 3, e.TicketsBooked)
}

func TestReserveRoute_ErrorEnvelope(t *testing.T) {
	p := New()
	p.EmitCodes = true
	p.AddUser("tok", "u1", "Ada")
	id := p.AddEvent(model.Event{Title: "Gig", TicketsLimit: intPtr(5)})
	require.NoError(t, p.Book(id, "u1"))
	srv := Serve(t, p)

	body, _ := json.Marshal(model.ReserveRequest{EventID: id})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/posts", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var env model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, DetailAlreadyBooked, env.Detail)
	assert.Equal(t, CodeAlreadyBooked, env.Code)
	assert.Equal(t, 1, p.Calls("reserve"))
}

func TestUnauthenticatedWrite(t *testing.T) {
	p := New()
	srv := Serve(t, p)

	resp, err := http.Post(srv.URL+"/comments/", "application/json", bytes.NewReader([]byte(`{"text":"hi","post_id":"1"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFailNext_ConsumedOnce(t *testing.T) {
	p := New()
	p.FailNext("list_events", Failure{Status: http.StatusInternalServerError, Detail: "boom"})
	srv := Serve(t, p)

	first, err := http.Get(srv.URL + "/posts/")
	require.NoError(t, err)
	first.Body.Close()
	second, err := http.Get(srv.URL + "/posts/")
	require.NoError(t, err)
	second.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, first.StatusCode)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, 2, p.Calls("list_events"))
}

func TestComments_NewestFirstWithEditableFlag(t *testing.T) {
	p := New()
	p.AddUser("tok", "u1", "Ada")
	id := p.AddEvent(model.Event{Title: "Gig"})
	p.AddComment(id, "u1", "first")
	p.AddComment(id, "u2", "second")
	srv := Serve(t, p)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/comments/post/"+id.String(), nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []model.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Body)
	assert.False(t, got[0].EditableByViewer)
	assert.Equal(t, "first", got[1].Body)
	assert.True(t, got[1].EditableByViewer)
	assert.Equal(t, "Ada", got[1].AuthorName())
}
