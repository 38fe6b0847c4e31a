package common

import (
	"encoding/gob"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/opscenter-labs/opsconsole/internal/ui/components"
)

const (
	sessionName = "opsconsole"
	flashKey    = "flash"
)

func init() {
	gob.Register(components.Flash{})
}

// SetFlash stores f for the next page load. It writes a cookie, so it must
// run before any SSE response is started.
func (d *Deps) SetFlash(w http.ResponseWriter, r *http.Request, f components.Flash) {
	session, err := d.Sessions.Get(r, sessionName)
	if err != nil {
		d.Log().Warn("session decode failed, starting a new one", "error", err)
	}
	session.AddFlash(f, flashKey)
	if err := session.Save(r, w); err != nil {
		d.Log().Error("failed to save flash", "error", err)
	}
}

// PopFlash returns and clears the pending flash, if any.
func (d *Deps) PopFlash(w http.ResponseWriter, r *http.Request) *components.Flash {
	session, err := d.Sessions.Get(r, sessionName)
	if err != nil {
		return nil
	}
	flashes := session.Flashes(flashKey)
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		d.Log().Error("failed to clear flash", "error", err)
	}
	f, ok := flashes[len(flashes)-1].(components.Flash)
	if !ok {
		return nil
	}
	return &f
}

// Succeed finishes a successful form submission: it records a flash,
// notifies listeners that resource changed and redirects the browser.
func (d *Deps) Succeed(w http.ResponseWriter, r *http.Request, resource, message, location string) {
	d.SetFlash(w, r, components.Flash{Kind: components.FlashSuccess, Message: message})
	if d.Notifier != nil {
		d.Notifier.Changed(resource)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.Redirect(location); err != nil {
		d.Log().Error("redirect failed", "location", location, "error", err)
	}
}
