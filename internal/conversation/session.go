// Package conversation drives the chat exchange with the assistant: picking
// the persona for the current phase, creating the conversation on first
// send, and keeping the local message history.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/thinkwright/novelflow/internal/api"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a message is already being sent")
	ErrNoProject    = errors.New("no project selected")
	ErrNoSession    = errors.New("no active conversation")
	ErrStale        = errors.New("reply arrived after the project changed")
)

// API is the part of the backend a Session talks to.
type API interface {
	CreateConversation(ctx context.Context, req api.CreateConversationRequest) (novel.Conversation, error)
	AddMessage(ctx context.Context, conversationID, message string, persona novel.Persona) (novel.MessageReply, error)
	SwitchRole(ctx context.Context, conversationID string, persona novel.Persona) error
}

// StateStore is the global store as seen by a Session.
type StateStore interface {
	State() state.State
	Dispatch(actions ...state.Action)
	Notify(typ novel.NotificationType, title, message string) novel.Notification
}

// Request is a send that passed validation, captured with everything the
// network half needs so it can run off the UI goroutine.
type Request struct {
	Text         string
	ProjectID    string
	Persona      novel.Persona
	Conversation *novel.Conversation
}

// Result is what the network half produced. Created is set whenever a
// conversation was created, even if posting the message then failed.
type Result struct {
	Request Request
	Created *novel.Conversation
	Reply   novel.MessageReply
	Err     error
}

type Session struct {
	api       API
	store     StateStore
	log       *zap.Logger
	now       func() time.Time
	typedEcho bool
	messages  []novel.Message
}

type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithTypedEcho makes the local user message carry the text that was typed.
// Without it, the user entry repeats the assistant's reply content, which is
// how the history has always been recorded.
func WithTypedEcho(on bool) Option {
	return func(s *Session) {
		s.typedEcho = on
	}
}

func New(a API, st StateStore, opts ...Option) *Session {
	s := &Session{
		api:   a,
		store: st,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "conversation"))
	return s
}

// SetTypedEcho changes the echo mode for later sends.
func (s *Session) SetTypedEcho(on bool) {
	s.typedEcho = on
}

// Messages returns a copy of the local history.
func (s *Session) Messages() []novel.Message {
	return slices.Clone(s.messages)
}

// Reset drops the local history, e.g. when the project changes.
func (s *Session) Reset() {
	s.messages = nil
}

// Begin validates a send and marks the store as loading.
func (s *Session) Begin(text string) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, ErrEmptyMessage
	}
	st := s.store.State()
	if st.UI.IsLoading {
		return Request{}, ErrBusy
	}
	if st.CurrentProject == nil {
		return Request{}, ErrNoProject
	}

	req := Request{
		Text:         text,
		ProjectID:    st.CurrentProject.ID,
		Persona:      st.Persona(),
		Conversation: st.ActiveConversation,
	}
	s.store.Dispatch(state.SetLoading{Loading: true})
	return req, nil
}

// Exchange performs the network calls for req. It does not touch the store
// and is safe to run on any goroutine.
func (s *Session) Exchange(ctx context.Context, req Request) Result {
	res := Result{Request: req}

	conv := req.Conversation
	if conv == nil {
		created, err := s.api.CreateConversation(ctx, api.CreateConversationRequest{
			ProjectID: req.ProjectID,
			Persona:   req.Persona,
		})
		if err != nil {
			res.Err = fmt.Errorf("create conversation: %w", err)
			return res
		}
		res.Created = &created
		conv = &created
	}

	reply, err := s.api.AddMessage(ctx, conv.ID, req.Text, req.Persona)
	if err != nil {
		res.Err = fmt.Errorf("send message: %w", err)
		return res
	}
	res.Reply = reply
	return res
}

// Complete folds res back into the store and the local history. Loading is
// cleared whatever the outcome. A result for a project that is no longer
// current is dropped.
func (s *Session) Complete(res Result) error {
	if s.store.State().ProjectID() != res.Request.ProjectID {
		s.store.Dispatch(state.SetLoading{Loading: false})
		s.log.Info("dropping reply for previous project", zap.String("project_id", res.Request.ProjectID))
		return ErrStale
	}

	var actions []state.Action
	if res.Created != nil {
		actions = append(actions, state.SetActiveConversation{Conversation: res.Created})
	}
	actions = append(actions, state.SetLoading{Loading: false})
	s.store.Dispatch(actions...)

	if res.Err != nil {
		s.log.Error("send failed",
			zap.String("project_id", res.Request.ProjectID),
			zap.String("persona", string(res.Request.Persona)),
			zap.Error(res.Err),
		)
		s.store.Notify(novel.NotifyError, "Message not sent", api.UserMessage(res.Err))
		return res.Err
	}

	ts := s.now().UTC().Format(time.RFC3339Nano)
	reply := res.Reply.Message

	userContent := reply.Content
	if s.typedEcho {
		userContent = res.Request.Text
	}
	user := novel.Message{
		Role:      novel.MessageUser,
		Content:   userContent,
		Timestamp: ts,
	}

	structured := slices.Clone(reply.StructuredData)
	if len(res.Reply.SuggestedActions) > 0 {
		if _, ok := structured.Find(novel.KindSuggestedActions); !ok {
			structured = append(structured, novel.SuggestedActionsPayload{Actions: res.Reply.SuggestedActions})
		}
	}
	assistant := novel.Message{
		Role:           novel.MessageAssistant,
		Content:        reply.Content,
		Persona:        res.Request.Persona,
		Metadata:       reply.Metadata,
		StructuredData: structured,
		Timestamp:      ts,
	}

	s.messages = append(s.messages, user, assistant)
	return nil
}

// Send runs Begin, Exchange and Complete on the calling goroutine.
func (s *Session) Send(ctx context.Context, text string) error {
	req, err := s.Begin(text)
	if err != nil {
		return err
	}
	return s.Complete(s.Exchange(ctx, req))
}

// AppendLocal adds an assistant message that did not come from the
// conversation endpoint, such as a developed inspiration.
func (s *Session) AppendLocal(msg novel.Message) {
	if msg.Timestamp == "" {
		msg.Timestamp = s.now().UTC().Format(time.RFC3339Nano)
	}
	if msg.Role == "" {
		msg.Role = novel.MessageAssistant
	}
	s.messages = append(s.messages, msg)
}

// SwitchPersona tells the backend the conversation now speaks as persona.
func (s *Session) SwitchPersona(ctx context.Context, conversationID string, persona novel.Persona) error {
	if conversationID == "" {
		return ErrNoSession
	}
	if err := s.api.SwitchRole(ctx, conversationID, persona); err != nil {
		s.log.Warn("switch role", zap.String("conversation_id", conversationID), zap.Error(err))
		return fmt.Errorf("switch role: %w", err)
	}
	return nil
}
