package controller

// State is the validation state of a controller's current value.
type State int

const (
	// StateEmpty means no value has been entered.
	StateEmpty State = iota
	// StateEditing means the value is incomplete but may become valid with
	// more input (e.g. "a@" for an email).
	StateEditing
	// StateValid means the value passes the field's rule.
	StateValid
	// StateInvalid means the value cannot become valid by appending input.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error message resource keys reported through FieldError.
const (
	ErrKeyBlank            = "error.blank"
	ErrKeyEmailIncomplete  = "error.email_incomplete"
	ErrKeyEmailInvalid     = "error.email_invalid"
	ErrKeyIbanIncomplete   = "error.iban_incomplete"
	ErrKeyIbanCountry      = "error.iban_invalid_country"
	ErrKeyIbanInvalid      = "error.iban_invalid"
	ErrKeyIbanChecksum     = "error.iban_checksum"
	ErrKeySelectionInvalid = "error.selection_invalid"
)

// FieldError describes why a value is not valid. Key is a resource key the UI
// layer translates; Args are substituted into the translated message.
type FieldError struct {
	Key  string
	Args []any
}

// Snapshot is the observable state of a controller after an update.
type Snapshot struct {
	RawValue string
	State    State
	Valid    bool
	Complete bool
	Error    *FieldError
}

// Observer is notified synchronously after every value change.
type Observer func(Snapshot)

// Controller is the value holder backing one form element. Controllers are
// owned by a single UI context; they are not safe for concurrent writers.
type Controller interface {
	RawValue() string
	SetRawValue(value string)
	State() State
	Valid() bool
	Complete() bool
	Required() bool
	Error() *FieldError
	Subscribe(observer Observer) (cancel func())
}

// Labeled is implemented by controllers that expose a label resource key.
type Labeled interface {
	Label() string
}

// SnapshotOf captures the current state of c.
func SnapshotOf(c Controller) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		RawValue: c.RawValue(),
		State:    c.State(),
		Valid:    c.Valid(),
		Complete: c.Complete(),
		Error:    c.Error(),
	}
}

type subscription struct {
	id       int
	observer Observer
}

// observers is the subscriber list embedded by every controller.
type observers struct {
	next int
	subs []subscription
}

func (o *observers) add(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	o.next++
	id := o.next
	o.subs = append(o.subs, subscription{id: id, observer: observer})
	return func() { o.remove(id) }
}

func (o *observers) remove(id int) {
	for idx, sub := range o.subs {
		if sub.id == id {
			o.subs = append(o.subs[:idx:idx], o.subs[idx+1:]...)
			return
		}
	}
}

func (o *observers) notify(snapshot Snapshot) {
	if len(o.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), o.subs...)
	for _, sub := range subs {
		sub.observer(snapshot)
	}
}
