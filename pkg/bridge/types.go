package bridge

import (
	"fmt"
	"strings"
)

// Function references a script callback by id. Hosts serialize the key as
// "@@f"; Decode rewrites "@" to "_" before parsing.
type Function struct {
	F string `json:"__f"`
}

// SerializedData describes one node of an externally rendered tree. Every
// node, children included, must carry a kind.
type SerializedData struct {
	ID       string              `json:"id"`
	Kind     string              `json:"kind"`
	Type     string              `json:"type"`
	Props    map[string]Function `json:"props,omitempty"`
	Children []SerializedData    `json:"children,omitempty"`
}

// validate rejects nodes, nested or not, without a kind.
func (d SerializedData) validate() error {
	if strings.TrimSpace(d.Kind) == "" {
		return fmt.Errorf("node %q has no kind", d.ID)
	}
	for _, child := range d.Children {
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}

func validateAll(nodes []SerializedData) error {
	for _, node := range nodes {
		if err := node.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Callback returns the function id registered under prop, or "".
func (d SerializedData) Callback(prop string) string {
	if d.Props == nil {
		return ""
	}
	return d.Props[prop].F
}

// Target identifies the node an event originates from.
type Target struct {
	ID       string   `json:"id"`
	Value    *string  `json:"value,omitempty"`
	Parent   *Target  `json:"parent,omitempty"`
	Children []Target `json:"children,omitempty"`
}

// Event is the argument passed to script callbacks.
type Event struct {
	Target Target `json:"target"`
}

// TextFieldState is the validation result a script returns for a text field.
type TextFieldState struct {
	ShouldShowErrorHasFocus   bool   `json:"shouldShowErrorHasFocus"`
	ShouldShowErrorHasNoFocus bool   `json:"shouldShowErrorHasNoFocus"`
	Full                      bool   `json:"full"`
	Blank                     bool   `json:"blank"`
	Valid                     bool   `json:"valid"`
	ErrorMsg                  string `json:"errorMsg"`
}

// Response is a script's answer to an Event.
type Response struct {
	ID            string         `json:"id"`
	Field         string         `json:"field"`
	RawFieldValue string         `json:"rawFieldValue"`
	State         TextFieldState `json:"state"`
}

const (
	// TypeTextField is the node type Decode turns into a script-validated
	// text field.
	TypeTextField = "TextField"
	// TypeUIText is the node type Mount turns into a plain text field.
	TypeUIText = "ui-text"
	// PropTextChange is the prop holding the text change callback.
	PropTextChange = "onTextChange"
	// sectionSuffix is appended to node ids to name the wrapping section.
	sectionSuffix = "section"
)
