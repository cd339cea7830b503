package gateway

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"

	"github.com/compustack/aether/pkg/logging"
	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

// FailedResponseMessage is published once when a chat stream breaks.
const FailedResponseMessage = "Error: Failed to fetch response."

var errSessionUsed = errors.New("session already started")

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionOpen
	SessionDraining
	SessionClosed
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionOpen:
		return "open"
	case SessionDraining:
		return "draining"
	case SessionClosed:
		return "closed"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Subscriber receives the cumulative response text after every fragment.
// Each value replaces the previous one.
type Subscriber func(text string)

type TextStreamer interface {
	StreamText(ctx context.Context, req model.ProviderRequest) iter.Seq2[string, error]
}

// Session drains one streamed chat response. A Session runs once; calling
// Run again returns an error. Separate sessions are independent of each other.
type Session struct {
	streamer   TextStreamer
	req        model.ProviderRequest
	subscriber Subscriber

	mu        sync.Mutex
	state     SessionState
	text      strings.Builder
	fragments int
}

func NewSession(streamer TextStreamer, req model.ProviderRequest, subscriber Subscriber) *Session {
	return &Session{
		streamer:   streamer,
		req:        req,
		subscriber: subscriber,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the text accumulated so far.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

func (s *Session) Run(ctx context.Context) (string, error) {
	log := logging.NewLogger(ctx)

	s.mu.Lock()
	if s.state != SessionIdle {
		s.mu.Unlock()
		return "", utils.WrapIfNotNil(errSessionUsed)
	}
	s.state = SessionOpen
	s.mu.Unlock()

	for fragment, err := range s.streamer.StreamText(ctx, s.req) {
		if err != nil {
			s.setState(SessionFailed)
			s.publish(FailedResponseMessage)
			return "", utils.MarkIfNotNil(model.ErrTransport, err)
		}
		if fragment == "" {
			continue
		}

		s.mu.Lock()
		s.state = SessionDraining
		s.text.WriteString(fragment)
		s.fragments++
		current := s.text.String()
		s.mu.Unlock()

		s.publish(current)
	}

	s.mu.Lock()
	s.state = SessionClosed
	full := s.text.String()
	fragments := s.fragments
	s.mu.Unlock()

	if fragments == 0 {
		s.publish(full)
	}
	log.Debugf("chat session closed fragments=%d length=%d", fragments, len(full))
	return full, nil
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) publish(text string) {
	if s.subscriber != nil {
		s.subscriber(text)
	}
}
