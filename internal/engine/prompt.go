package engine

import "github.com/sman1la/tatib-bot/internal/service"

// Button is one inline keyboard button: a label and its callback payload.
type Button struct {
	Label string
	Data  string
}

// Prompt is the engine's answer to one event: text to show, an optional
// inline keyboard and an optional document to attach.
type Prompt struct {
	Text     string
	Buttons  [][]Button
	Document *service.ReportArtifact
}

func btn(label, action, value string) Button {
	return Button{Label: label, Data: Callback{Action: action, Value: value}.Encode()}
}

func row(buttons ...Button) []Button {
	return buttons
}
