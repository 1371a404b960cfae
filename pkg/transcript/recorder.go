package transcript

import (
	"context"
	"fmt"

	"github.com/ewittry/parley/pkg/chat"
)

// Recorder chains the turns of one session into a Storer. Each recorded
// turn becomes a child of the previous one, so the session forms a
// single chain whose head is the latest turn.
type Recorder struct {
	storer Storer
	model  string
	head   *Entry
}

// NewRecorder creates a recorder that stores entries tagged with model.
func NewRecorder(storer Storer, model string) *Recorder {
	return &Recorder{storer: storer, model: model}
}

// Record appends turns to the session chain. If the same conversation
// was recorded before, the hashes match and the store deduplicates.
func (r *Recorder) Record(ctx context.Context, turns ...chat.Turn) error {
	for _, t := range turns {
		e := NewEntry(t, r.model, r.head)
		if err := r.storer.Put(ctx, e); err != nil {
			return fmt.Errorf("could not store turn: %w", err)
		}
		r.head = e
	}
	return nil
}

// Head returns the latest recorded entry, or nil if nothing has been
// recorded yet.
func (r *Recorder) Head() *Entry {
	return r.head
}
