package tokens

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opscenter-labs/opsconsole/internal/api"
	"github.com/opscenter-labs/opsconsole/internal/ui/components"
	"github.com/opscenter-labs/opsconsole/internal/ui/features/common"
)

// dateLayout is the value format of a datetime-local input.
const dateLayout = "2006-01-02T15:04"

// TokenSignals is posted by the create and edit forms.
type TokenSignals struct {
	Form struct {
		Description   string     `json:"description"`
		UsesRemaining common.Int `json:"uses_remaining"`
		ExpireAt      string     `json:"expire_at"`
	} `json:"form"`
}

// SeedSignals is posted by the seed form.
type SeedSignals struct {
	Form struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
		Seeds       string `json:"seeds"`
	} `json:"form"`
}

func tokenPath(id uuid.UUID, suffix ...string) string {
	p := "/tokens/" + id.String()
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func tokenForm(action, cancel, submit string, description string, uses int, expire string) components.Form {
	return components.Form{
		ID:     "token-form",
		Action: action,
		Submit: submit,
		Cancel: cancel,
		Fields: []components.FormField{
			{Name: "description", Label: "Description", Value: description},
			{Name: "uses_remaining", Label: "Uses remaining", Type: components.InputNumber, Value: strconv.Itoa(uses), Required: true},
			{Name: "expire_at", Label: "Expires (UTC)", Type: components.InputDate, Value: expire, Required: true},
		},
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// parseToken validates the signals, recording field errors on form.
func parseToken(s TokenSignals, form *components.Form) (api.TokenPut, bool) {
	put := api.TokenPut{
		Description:   strings.TrimSpace(s.Form.Description),
		UsesRemaining: int(s.Form.UsesRemaining),
	}
	if put.UsesRemaining < 0 {
		form.Fields[1].Error = "Uses remaining cannot be negative"
	}

	expire := strings.TrimSpace(s.Form.ExpireAt)
	if msg := common.Required("Expiry", expire); msg != "" {
		form.Fields[2].Error = msg
	} else if t, err := time.ParseInLocation(dateLayout, expire, time.UTC); err != nil {
		form.Fields[2].Error = "Use the format YYYY-MM-DDTHH:MM"
	} else {
		put.ExpireAt = t
	}

	return put, !form.HasErrors()
}

func seedForm(id uuid.UUID, s SeedSignals) components.Form {
	return components.Form{
		ID:     "seed-form",
		Action: tokenPath(id, "seeds", "new"),
		Submit: "Create seed",
		Cancel: tokenPath(id, "seeds"),
		Fields: []components.FormField{
			{Name: "name", Label: "Name", Value: s.Form.Name, Required: true},
			{Name: "description", Label: "Description", Value: s.Form.Description},
			{Name: "public", Label: "Public", Type: components.InputCheckbox, Checked: s.Form.Public, Help: "Public seeds can be fetched without the token"},
			{Name: "seeds", Label: "Seeds (YAML)", Type: components.InputTextarea, Value: s.Form.Seeds, Placeholder: "install:\n  force_install: true"},
		},
	}
}

func parseSeed(s SeedSignals, form *components.Form) (api.TokenSeedPost, bool) {
	post := api.TokenSeedPost{
		Name:        strings.TrimSpace(s.Form.Name),
		Description: strings.TrimSpace(s.Form.Description),
		Public:      s.Form.Public,
	}
	form.Fields[0].Error = common.ValidateName(post.Name)

	seeds, err := common.ParseYAMLMap(s.Form.Seeds)
	if err != nil {
		form.Fields[3].Error = err.Error()
	}
	post.Seeds = seeds

	return post, !form.HasErrors()
}
