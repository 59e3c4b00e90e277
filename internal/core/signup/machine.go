// Package signup implements the account creation flow.
package signup

import (
	"fmt"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// Status is a state of the account creation flow.
type Status int

const (
	Editing Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Form holds the four sign-up fields.
type Form struct {
	Username     string `form:"username"`
	FullName     string `form:"fullName"`
	EmailAddress string `form:"emailAddress"`
	Password     string `form:"password"`
}

// Complete reports whether every field is filled in. An incomplete form
// cannot be submitted.
func (f Form) Complete() bool {
	return f.Username != "" && f.FullName != "" && f.EmailAddress != "" && f.Password != ""
}

// Machine tracks one pass through the flow.
type Machine struct {
	status   Status
	form     Form
	reason   string
	identity *domain.Identity
}

// NewMachine starts in Editing with the given field values.
func NewMachine(form Form) *Machine {
	return &Machine{status: Editing, form: form}
}

func (m *Machine) Status() Status             { return m.status }
func (m *Machine) Form() Form                 { return m.form }
func (m *Machine) Reason() string             { return m.reason }
func (m *Machine) Identity() *domain.Identity { return m.identity.Clone() }

// CanSubmit mirrors the enabled state of the submit control.
func (m *Machine) CanSubmit() bool {
	return m.status == Editing && m.form.Complete()
}

// Edit replaces the field values, returning a failed flow to Editing.
func (m *Machine) Edit(form Form) error {
	if m.status != Editing && m.status != Failed {
		return fmt.Errorf("edit: not allowed while %s", m.status)
	}
	m.status = Editing
	m.form = form
	return nil
}

func (m *Machine) begin() error {
	if m.status != Editing {
		return fmt.Errorf("submit: not allowed while %s", m.status)
	}
	if !m.form.Complete() {
		return domain.ErrIncompleteForm
	}
	m.status = Submitting
	m.reason = ""
	return nil
}

func (m *Machine) fail(reason string, clear func(*Form)) {
	m.status = Failed
	m.reason = reason
	if clear != nil {
		clear(&m.form)
	}
}

func (m *Machine) succeed(identity *domain.Identity) {
	m.status = Succeeded
	m.identity = identity.Clone()
	m.form.Password = ""
}

func clearUsername(f *Form) { f.Username = "" }

func clearAccountFields(f *Form) {
	f.FullName = ""
	f.EmailAddress = ""
	f.Password = ""
}

func clearPassword(f *Form) { f.Password = "" }
