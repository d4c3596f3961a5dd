package qbittorrent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client.
//
// Authentication is lazy: the first call that needs the API logs in and
// caches the result. Any transport failure clears the cached flag so the
// next call re-authenticates.
type Client struct {
	client        *qbittorrent.Client
	logger        zerolog.Logger
	authenticated bool
}

// NewClient creates a new qBittorrent client. No connection is made until
// Login or the first API call.
func NewClient(host string, port int, username, password string, timeout int, verifySSL bool, logger zerolog.Logger) *Client {
	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          fmt.Sprintf("http://%s:%d", host, port),
		Username:      username,
		Password:      password,
		Timeout:       timeout,
		TLSSkipVerify: !verifySSL,
	})

	return &Client{
		client: client,
		logger: logger,
	}
}

// Login authenticates with qBittorrent and caches the result.
func (c *Client) Login(ctx context.Context) error {
	if err := c.client.LoginCtx(ctx); err != nil {
		c.authenticated = false
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	c.authenticated = true
	c.logger.Info().Msg("Successfully authenticated with qBittorrent")
	return nil
}

// ensureAuth logs in if the cached authenticated flag is not set.
func (c *Client) ensureAuth(ctx context.Context) error {
	if c.authenticated {
		return nil
	}
	return c.Login(ctx)
}

// ListTorrents retrieves all torrents from qBittorrent.
func (c *Client) ListTorrents(ctx context.Context) ([]TorrentInfo, error) {
	if err := c.ensureAuth(ctx); err != nil {
		return nil, err
	}

	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		// Force a fresh login on the next cycle; the session may have expired.
		c.authenticated = false
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d torrents from qBittorrent", len(torrents))

	results := make([]TorrentInfo, 0, len(torrents))
	for _, t := range torrents {
		info := TorrentInfo{
			Hash:     t.Hash,
			Name:     t.Name,
			State:    TorrentState(t.State),
			AddedOn:  time.Unix(t.AddedOn, 0),
			Size:     t.Size,
			Progress: t.Progress,
			DlSpeed:  t.DlSpeed,
			NumSeeds: t.NumSeeds,
			Ratio:    t.Ratio,
			Category: t.Category,
			Tracker:  t.Tracker,
		}
		if t.Tags != "" {
			info.Tags = strings.Split(t.Tags, ",")
		}
		results = append(results, info)
	}

	return results, nil
}

// Reannounce asks the given torrents to reannounce to their trackers.
// Callers treat failures as best-effort.
func (c *Client) Reannounce(ctx context.Context, hashes []string) error {
	if err := c.ensureAuth(ctx); err != nil {
		return err
	}

	if err := c.client.ReAnnounceTorrentsCtx(ctx, hashes); err != nil {
		return fmt.Errorf("failed to reannounce torrents: %w", err)
	}
	return nil
}

// Delete removes the given torrents, optionally deleting their data.
func (c *Client) Delete(ctx context.Context, hashes []string, deleteFiles bool) error {
	if err := c.ensureAuth(ctx); err != nil {
		return err
	}

	if err := c.client.DeleteTorrentsCtx(ctx, hashes, deleteFiles); err != nil {
		c.authenticated = false
		return fmt.Errorf("failed to delete torrents: %w", err)
	}
	return nil
}
