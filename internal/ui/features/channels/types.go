package channels

import (
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

// ChannelSignals is posted by the create and edit forms. Name is ignored on edit.
type ChannelSignals struct {
	Form struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"form"`
}

func createForm(s ChannelSignals) components.Form {
	return components.Form{
		ID:     "channel-form",
		Action: "/channels/new",
		Submit: "Create channel",
		Cancel: "/channels",
		Fields: []components.FormField{
			{Name: "name", Label: "Name", Value: s.Form.Name, Required: true},
			{Name: "description", Label: "Description", Value: s.Form.Description},
		},
	}
}

func editForm(name, description string) components.Form {
	return components.Form{
		ID:     "channel-form",
		Action: channelPath(name, "edit"),
		Submit: "Save",
		Cancel: channelPath(name),
		Fields: []components.FormField{
			{Name: "description", Label: "Description", Value: description},
		},
	}
}
