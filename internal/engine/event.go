// Package engine implements the conversation state machine. It consumes
// normalised events from the transport, consults the services and answers
// with prompts; it never touches the messaging platform directly.
package engine

import "strings"

// Kind discriminates the event variants coming out of the transport.
type Kind string

const (
	KindCommand  Kind = "command"
	KindText     Kind = "text"
	KindPhoto    Kind = "photo"
	KindCallback Kind = "callback"
)

// Commands understood outside of any flow.
const (
	CmdStart  = "start"
	CmdMenu   = "menu"
	CmdCancel = "batal"
	CmdHelp   = "help"
)

// Callback actions carried in inline keyboard payloads.
const (
	ActionMenu    = "menu"
	ActionTier    = "tier"
	ActionClass   = "class"
	ActionStudent = "student"
	ActionType    = "type"
	ActionConfirm = "confirm"
	ActionBack    = "back"
	ActionExport  = "export"
)

// Menu targets for ActionMenu callbacks.
const (
	MenuRecord = "record"
	MenuLookup = "lookup"
	MenuExport = "export"
	MenuHelp   = "help"
	MenuMain   = "main"
)

// Callback is a parsed inline keyboard payload of the form "action:value".
type Callback struct {
	Action string
	Value  string
}

// ParseCallback splits a raw payload. Payloads without a separator come
// back with an empty value; the engine treats unknown actions as stale.
func ParseCallback(data string) Callback {
	action, value, _ := strings.Cut(data, ":")
	return Callback{Action: action, Value: value}
}

// Encode rebuilds the wire form of the payload.
func (c Callback) Encode() string {
	return c.Action + ":" + c.Value
}

// Event is one normalised conversation input. Exactly the fields implied
// by Kind are set: Command for KindCommand, Text for KindText, PhotoPath
// for KindPhoto and Callback for KindCallback.
type Event struct {
	Kind      Kind
	Command   string
	Text      string
	PhotoPath string
	Callback  Callback
}
