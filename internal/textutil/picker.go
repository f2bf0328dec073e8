package textutil

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrEmptyPool indicates a picker without messages.
var ErrEmptyPool = errors.New("textutil: empty message pool")

// Affirmations greet the user after a check-in.
var Affirmations = []string{
	"You showed up today, and that matters.",
	"Small steps still move you forward.",
	"Your feelings are valid.",
	"You are not alone in this.",
	"Rest is productive too.",
	"Be as kind to yourself as you are to others.",
}

// CheckInPrompts open the mood check-in.
var CheckInPrompts = []string{
	"How are you feeling right now?",
	"What is one thing on your mind today?",
	"What would make today a little easier?",
	"What are you grateful for this moment?",
}

// Picker returns random messages from a fixed pool.
type Picker struct {
	mu       sync.Mutex
	messages []string
	rng      *rand.Rand
}

// NewPicker copies messages and draws from source. A nil source uses a
// randomly seeded PCG.
func NewPicker(messages []string, source rand.Source) (*Picker, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyPool
	}
	if source == nil {
		source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Picker{
		messages: append([]string(nil), messages...),
		rng:      rand.New(source),
	}, nil
}

// Pick returns one message.
func (p *Picker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[p.rng.IntN(len(p.messages))]
}
