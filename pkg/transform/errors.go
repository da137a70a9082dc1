package transform

import "errors"

var (
	// ErrBankTypeNotFound reports a dropdown whose bank type has no list in
	// the supplied lookup. It indicates a mismatch between the form
	// definition and the shipped bank data.
	ErrBankTypeNotFound = errors.New("transform: bank type not found")
	// ErrUnknownFieldKind reports a section whose field is nil or not one of
	// the known field specs.
	ErrUnknownFieldKind = errors.New("transform: unknown field kind")
	// ErrUnknownItemKind reports a nil or foreign form item.
	ErrUnknownItemKind = errors.New("transform: unknown form item kind")
)
