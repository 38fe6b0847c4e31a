package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UpdateClient reads the update catalog.
type UpdateClient interface {
	ListUpdates(ctx context.Context) ([]Update, error)
	GetUpdate(ctx context.Context, id uuid.UUID) (Update, error)
	ListUpdateFiles(ctx context.Context, id uuid.UUID) ([]UpdateFile, error)
	RefreshUpdates(ctx context.Context) error
}

// Update is one published release of the server images.
type Update struct {
	UUID        uuid.UUID `json:"uuid" yaml:"uuid"`
	Origin      string    `json:"origin" yaml:"origin"`
	ExternalID  string    `json:"external_id" yaml:"external_id"`
	Version     string    `json:"version" yaml:"version"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Severity    string    `json:"severity" yaml:"severity"`
	Channels    []string  `json:"channels" yaml:"channels"`
	Changelog   string    `json:"changelog" yaml:"changelog"`
	Status      string    `json:"update_status" yaml:"update_status"`
	URL         string    `json:"url" yaml:"url"`
}

// UpdateFile is one artifact of an update.
type UpdateFile struct {
	Filename     string `json:"filename" yaml:"filename"`
	URL          string `json:"url" yaml:"url"`
	Size         int64  `json:"size" yaml:"size"`
	Sha256       string `json:"sha256" yaml:"sha256"`
	Component    string `json:"component" yaml:"component"`
	Type         string `json:"type" yaml:"type"`
	Architecture string `json:"architecture" yaml:"architecture"`
}

func (c *client) ListUpdates(ctx context.Context) ([]Update, error) {
	var updates []Update
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "updates"), "recursion", "1"), &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *client) GetUpdate(ctx context.Context, id uuid.UUID) (Update, error) {
	var update Update
	err := c.get(ctx, c.apipath("provisioning", "updates", id.String()), &update)
	return update, err
}

func (c *client) ListUpdateFiles(ctx context.Context, id uuid.UUID) ([]UpdateFile, error) {
	var files []UpdateFile
	if err := c.get(ctx, c.apipath("provisioning", "updates", id.String(), "files"), &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *client) RefreshUpdates(ctx context.Context) error {
	return c.post(ctx, c.apipath("provisioning", "updates", ":refresh"), nil)
}
