package operator

import (
	"fmt"
	"sync"
)

// Scripted answers confirmations with a fixed value and keeps every message.
// It stands in for a human when the batch is driven by a tool call.
type Scripted struct {
	mu       sync.Mutex
	Answer   bool
	Messages []string
}

func (s *Scripted) Confirm(title, message string) (bool, error) {
	s.add("confirm", title, message)
	return s.Answer, nil
}

func (s *Scripted) Info(title, message string) error {
	s.add("info", title, message)
	return nil
}

func (s *Scripted) Error(title, message string) error {
	s.add("error", title, message)
	return nil
}

func (s *Scripted) add(kind, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, fmt.Sprintf("%s: %s: %s", kind, title, message))
}

// Count returns how many messages of kind ("confirm", "info", "error") were shown.
func (s *Scripted) Count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.Messages {
		if len(m) > len(kind) && m[:len(kind)+1] == kind+":" {
			n++
		}
	}
	return n
}
