package present

import (
	"sync"
	"time"
)

// DefaultMessageTTL is how long a message stays visible.
const DefaultMessageTTL = 6 * time.Second

type Message struct {
	Text      string    `json:"text"`
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// View is the whole display at one moment.
type View struct {
	Current  *CurrentView `json:"current,omitempty"`
	Forecast []DayCard    `json:"forecast"`
	Message  *Message     `json:"message,omitempty"`
	Recents  []string     `json:"recents"`
}

// State keeps the latest display so an HTTP client can read it back. Every
// call overwrites what was there: whichever search finishes last is shown.
type State struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	view View
}

func NewState(ttl time.Duration) *State {
	if ttl <= 0 {
		ttl = DefaultMessageTTL
	}
	return &State{
		ttl:  ttl,
		now:  time.Now,
		view: View{Forecast: []DayCard{}, Recents: []string{}},
	}
}

// SetClock replaces the time source.
func (s *State) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *State) ShowCurrent(v CurrentView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Current = &v
}

func (s *State) ShowForecast(cards []DayCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Forecast = append([]DayCard{}, cards...)
}

// ShowMessage replaces the message. Empty text clears it.
func (s *State) ShowMessage(text string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		s.view.Message = nil
		return
	}
	s.view.Message = &Message{Text: text, Kind: kind, ExpiresAt: s.now().Add(s.ttl)}
}

func (s *State) ShowRecents(cities []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Recents = append([]string{}, cities...)
}

// Snapshot returns a copy of the display, without a message that has expired.
func (s *State) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Forecast: append([]DayCard{}, s.view.Forecast...),
		Recents:  append([]string{}, s.view.Recents...),
	}
	if s.view.Current != nil {
		cur := *s.view.Current
		v.Current = &cur
	}
	if m := s.view.Message; m != nil && s.now().Before(m.ExpiresAt) {
		msg := *m
		v.Message = &msg
	}
	return v
}
