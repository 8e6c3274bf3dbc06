package records

import "sync"

// Prompter is the blocking confirmation and acknowledgment port used by
// mutating operations. Implementations decide how the question reaches the
// user: a terminal prompt, a browser dialog, or a scripted answer in tests.
type Prompter interface {
	// Confirm asks a yes/no question and reports the answer.
	Confirm(message string) bool

	// Notify shows an acknowledgment that needs no answer.
	Notify(message string)
}

// Scripted is a [Prompter] that answers every confirmation with Answer and
// records what it was asked and told. It is used by the HTTP layer, where
// the browser has already asked the user, and by tests.
type Scripted struct {
	Answer bool

	mu      sync.Mutex
	prompts []string
	notices []string
}

// Confirm records message and returns the scripted answer.
func (p *Scripted) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, message)
	return p.Answer
}

// Notify records message.
func (p *Scripted) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, message)
}

// Prompts returns the confirmation questions asked so far.
func (p *Scripted) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

// Notices returns the acknowledgments shown so far.
func (p *Scripted) Notices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notices...)
}

// LastNotice returns the most recent acknowledgment, or "".
func (p *Scripted) LastNotice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notices) == 0 {
		return ""
	}
	return p.notices[len(p.notices)-1]
}

// confirmed asks p, treating a nil prompter as consent.
func confirmed(p Prompter, message string) bool {
	if p == nil {
		return true
	}
	return p.Confirm(message)
}

func notify(p Prompter, message string) {
	if p != nil {
		p.Notify(message)
	}
}
