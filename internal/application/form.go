package application

import (
	"context"
	"sync"

	"futbal/internal/domain"
)

// FormState is the lifecycle of an edit form shared by event and profile flows.
type FormState int

const (
	FormIdle FormState = iota
	FormEditing
	FormSubmitting
	FormSuccess
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	}
	return "unknown"
}

// Form serializes submissions: Idle → Editing → Submitting → {Success → Idle, Error → Editing}.
// While Submitting, another Submit fails with domain.ErrSubmitInProgress.
type Form struct {
	// OnChange, when set, observes every transition. It is called without the lock held.
	OnChange func(FormState)

	mu      sync.Mutex
	state   FormState
	lastErr error
}

// Edit moves an idle form to Editing. It is a no-op in any other state.
func (f *Form) Edit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormIdle {
		f.state = FormEditing
	}
}

// Cancel abandons the edit; a submission in flight is unaffected.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormSubmitting {
		f.state = FormIdle
		f.lastErr = nil
	}
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the error of the last failed submission, if the form is still Editing after it.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit runs fn as the form's single in-flight submission.
// On success the form passes through Success back to Idle; on failure through Error back to Editing.
func (f *Form) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmitInProgress
	}
	f.state = FormSubmitting
	f.lastErr = nil
	hook := f.OnChange
	f.mu.Unlock()
	if hook != nil {
		hook(FormSubmitting)
	}

	if err := fn(ctx); err != nil {
		f.transition(FormError, err)
		f.transition(FormEditing, err)
		return err
	}
	f.transition(FormSuccess, nil)
	f.transition(FormIdle, nil)
	return nil
}

func (f *Form) transition(to FormState, err error) {
	f.mu.Lock()
	f.state = to
	f.lastErr = err
	hook := f.OnChange
	f.mu.Unlock()
	if hook != nil {
		hook(to)
	}
}
