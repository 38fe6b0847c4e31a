package api

import (
	"context"
	"time"
)

// ChannelClient manages update channels.
type ChannelClient interface {
	ListChannels(ctx context.Context) ([]Channel, error)
	GetChannel(ctx context.Context, name string) (Channel, error)
	CreateChannel(ctx context.Context, channel ChannelPost) error
	UpdateChannel(ctx context.Context, name string, channel ChannelPut) error
	DeleteChannel(ctx context.Context, name string) error
}

// Channel groups updates that servers follow together.
type Channel struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// ChannelPost creates a channel.
type ChannelPost struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChannelPut updates a channel.
type ChannelPut struct {
	Description string `json:"description"`
}

func (c *client) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "channels"), "recursion", "1"), &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (c *client) GetChannel(ctx context.Context, name string) (Channel, error) {
	var channel Channel
	err := c.get(ctx, c.apipath("provisioning", "channels", name), &channel)
	return channel, err
}

func (c *client) CreateChannel(ctx context.Context, channel ChannelPost) error {
	return c.post(ctx, c.apipath("provisioning", "channels"), channel)
}

func (c *client) UpdateChannel(ctx context.Context, name string, channel ChannelPut) error {
	return c.put(ctx, c.apipath("provisioning", "channels", name), channel)
}

func (c *client) DeleteChannel(ctx context.Context, name string) error {
	return c.delete(ctx, c.apipath("provisioning", "channels", name))
}
