package conversation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinkwright/novelflow/internal/api"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAPI records every call in order.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	createReq api.CreateConversationRequest
	sentTo    string
	sentText  string
	sentAs    novel.Persona
	reply     novel.MessageReply
	createErr error
	addErr    error
	switchErr error
}

func (f *fakeAPI) CreateConversation(_ context.Context, req api.CreateConversationRequest) (novel.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	f.createReq = req
	if f.createErr != nil {
		return novel.Conversation{}, f.createErr
	}
	return novel.Conversation{ID: "conv-new", ProjectID: req.ProjectID, Persona: req.Persona}, nil
}

func (f *fakeAPI) AddMessage(_ context.Context, conversationID, message string, persona novel.Persona) (novel.MessageReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "add:"+conversationID)
	f.sentTo, f.sentText, f.sentAs = conversationID, message, persona
	if f.addErr != nil {
		return novel.MessageReply{}, f.addErr
	}
	return f.reply, nil
}

func (f *fakeAPI) SwitchRole(_ context.Context, conversationID string, persona novel.Persona) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "switch:"+conversationID+":"+string(persona))
	return f.switchErr
}

func newFixture(t *testing.T, opts ...Option) (*Session, *fakeAPI, *state.Store) {
	t.Helper()
	fake := &fakeAPI{reply: novel.MessageReply{
		Message: novel.Message{Role: novel.MessageAssistant, Content: "What happens next?"},
	}}
	st := state.NewStore(nil, state.WithClock(func() time.Time { return time.UnixMilli(1000) }))
	st.Dispatch(state.SetCurrentProject{Project: &novel.Project{ID: "p1", Title: "Dune"}})
	opts = append([]Option{WithClock(func() time.Time { return time.Unix(0, 0) })}, opts...)
	return New(fake, st, opts...), fake, st
}

func TestSend_CreatesConversationFirst(t *testing.T) {
	s, fake, st := newFixture(t)

	require.NoError(t, s.Send(context.Background(), "a lighthouse"))

	assert.Equal(t, []string{"create", "add:conv-new"}, fake.calls)
	assert.Equal(t, "p1", fake.createReq.ProjectID)
	assert.Equal(t, novel.PersonaInspirationCollector, fake.createReq.Persona)
	assert.Equal(t, "a lighthouse", fake.sentText)

	active := st.State().ActiveConversation
	require.NotNil(t, active)
	assert.Equal(t, "conv-new", active.ID)
	assert.False(t, st.State().UI.IsLoading)
}

func TestSend_ReusesActiveConversation(t *testing.T) {
	s, fake, st := newFixture(t)
	st.Dispatch(state.SetActiveConversation{Conversation: &novel.Conversation{ID: "conv-old"}})

	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, []string{"add:conv-old"}, fake.calls)
}

func TestSend_AppendsExactlyTwo(t *testing.T) {
	s, _, _ := newFixture(t)

	require.NoError(t, s.Send(context.Background(), "first"))
	require.NoError(t, s.Send(context.Background(), "second"))

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	for i, want := range []novel.MessageRole{novel.MessageUser, novel.MessageAssistant, novel.MessageUser, novel.MessageAssistant} {
		assert.Equal(t, want, msgs[i].Role, "message %d", i)
	}
	assert.Equal(t, novel.PersonaInspirationCollector, msgs[1].Persona)
	assert.Equal(t, "What happens next?", msgs[1].Content)
}

func TestSend_UserEchoRepeatsReplyByDefault(t *testing.T) {
	s, _, _ := newFixture(t)
	require.NoError(t, s.Send(context.Background(), "what I typed"))
	msgs := s.Messages()
	assert.Equal(t, "What happens next?", msgs[0].Content)
}

func TestSend_TypedEcho(t *testing.T) {
	s, _, _ := newFixture(t, WithTypedEcho(true))
	require.NoError(t, s.Send(context.Background(), "what I typed"))
	msgs := s.Messages()
	assert.Equal(t, "what I typed", msgs[0].Content)
	assert.Equal(t, "What happens next?", msgs[1].Content)
}

func TestSend_PersonaFollowsPhase(t *testing.T) {
	s, fake, st := newFixture(t)
	st.Dispatch(state.SetCurrentPhase{Phase: novel.PhaseRhythm})

	require.NoError(t, s.Send(context.Background(), "slow middle"))
	assert.Equal(t, novel.PersonaRhythmAdjuster, fake.createReq.Persona)
	assert.Equal(t, novel.PersonaRhythmAdjuster, fake.sentAs)
}

func TestSend_SuggestedActionsFolded(t *testing.T) {
	s, fake, _ := newFixture(t)
	fake.reply.SuggestedActions = []novel.SuggestedAction{{Type: "develop", Label: "Develop"}}

	require.NoError(t, s.Send(context.Background(), "x"))
	msgs := s.Messages()
	p, ok := msgs[1].StructuredData.Find(novel.KindSuggestedActions)
	require.True(t, ok)
	assert.Equal(t, "Develop", p.(novel.SuggestedActionsPayload).Actions[0].Label)
}

func TestSend_SuggestedActionsNotDuplicated(t *testing.T) {
	s, fake, _ := newFixture(t)
	fake.reply.Message.StructuredData = novel.StructuredData{
		novel.SuggestedActionsPayload{Actions: []novel.SuggestedAction{{Label: "from message"}}},
	}
	fake.reply.SuggestedActions = []novel.SuggestedAction{{Label: "from reply"}}

	require.NoError(t, s.Send(context.Background(), "x"))
	sd := s.Messages()[1].StructuredData
	require.Len(t, sd, 1)
	assert.Equal(t, "from message", sd[0].(novel.SuggestedActionsPayload).Actions[0].Label)
}

func TestSend_FailureAppendsNothingAndClearsLoading(t *testing.T) {
	s, fake, st := newFixture(t)
	fake.addErr = &api.Error{Kind: api.KindServer, StatusCode: http.StatusBadGateway, Detail: "model offline"}

	err := s.Send(context.Background(), "hello")
	require.Error(t, err)

	assert.Empty(t, s.Messages())
	assert.False(t, st.State().UI.IsLoading)

	// The conversation was created before the post failed, so it stays active.
	require.NotNil(t, st.State().ActiveConversation)
	assert.Equal(t, "conv-new", st.State().ActiveConversation.ID)

	notes := st.State().UI.Notifications
	require.Len(t, notes, 1)
	assert.Equal(t, novel.NotifyError, notes[0].Type)
	assert.Equal(t, "model offline", notes[0].Message)
}

func TestSend_CreateFailure(t *testing.T) {
	s, fake, st := newFixture(t)
	fake.createErr = &api.Error{Kind: api.KindTransport, Err: errors.New("refused")}

	err := s.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.Equal(t, []string{"create"}, fake.calls)
	assert.Nil(t, st.State().ActiveConversation)
	assert.False(t, st.State().UI.IsLoading)
	assert.Equal(t, "Could not reach the server", st.State().UI.Notifications[0].Message)
}

func TestBegin_Validation(t *testing.T) {
	s, fake, st := newFixture(t)

	_, err := s.Begin("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	st.Dispatch(state.SetLoading{Loading: true})
	_, err = s.Begin("hi")
	assert.ErrorIs(t, err, ErrBusy)
	st.Dispatch(state.SetLoading{Loading: false})

	st.Dispatch(state.SetCurrentProject{})
	_, err = s.Begin("hi")
	assert.ErrorIs(t, err, ErrNoProject)

	assert.Empty(t, fake.calls)
	assert.False(t, st.State().UI.IsLoading)
}

func TestBegin_SetsLoading(t *testing.T) {
	s, _, st := newFixture(t)
	req, err := s.Begin("hi")
	require.NoError(t, err)
	assert.True(t, st.State().UI.IsLoading)
	assert.Equal(t, "p1", req.ProjectID)

	_, err = s.Begin("again")
	assert.ErrorIs(t, err, ErrBusy, "repeat submission is rejected while loading")
}

func TestExchange_OffGoroutine(t *testing.T) {
	s, fake, st := newFixture(t)
	req, err := s.Begin("async")
	require.NoError(t, err)

	done := make(chan Result)
	go func() { done <- s.Exchange(context.Background(), req) }()
	res := <-done

	require.NoError(t, s.Complete(res))
	assert.Equal(t, []string{"create", "add:conv-new"}, fake.calls)
	assert.Len(t, s.Messages(), 2)
	assert.False(t, st.State().UI.IsLoading)
}

func TestComplete_DropsStaleProject(t *testing.T) {
	s, _, st := newFixture(t)
	req, err := s.Begin("old project")
	require.NoError(t, err)
	res := s.Exchange(context.Background(), req)

	st.Dispatch(state.SetCurrentProject{Project: &novel.Project{ID: "p2"}})
	err = s.Complete(res)

	assert.ErrorIs(t, err, ErrStale)
	assert.Empty(t, s.Messages())
	assert.Nil(t, st.State().ActiveConversation)
	assert.False(t, st.State().UI.IsLoading)
}

func TestReset(t *testing.T) {
	s, _, _ := newFixture(t)
	require.NoError(t, s.Send(context.Background(), "x"))
	s.Reset()
	assert.Empty(t, s.Messages())
}

func TestAppendLocal(t *testing.T) {
	s, _, _ := newFixture(t)
	s.AppendLocal(novel.Message{Content: "expanded"})
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, novel.MessageAssistant, msgs[0].Role)
	assert.NotEmpty(t, msgs[0].Timestamp)
}

func TestSwitchPersona(t *testing.T) {
	s, fake, _ := newFixture(t)

	assert.ErrorIs(t, s.SwitchPersona(context.Background(), "", novel.PersonaPlotWeaver), ErrNoSession)

	require.NoError(t, s.SwitchPersona(context.Background(), "conv-1", novel.PersonaPlotWeaver))
	assert.Equal(t, []string{"switch:conv-1:plot_weaver"}, fake.calls)

	fake.switchErr = errors.New("gone")
	assert.Error(t, s.SwitchPersona(context.Background(), "conv-1", novel.PersonaPlotWeaver))
}

func TestMessages_ReturnsCopy(t *testing.T) {
	s, _, _ := newFixture(t)
	require.NoError(t, s.Send(context.Background(), "x"))
	msgs := s.Messages()
	msgs[0].Content = "tampered"
	assert.NotEqual(t, "tampered", s.Messages()[0].Content)
}
