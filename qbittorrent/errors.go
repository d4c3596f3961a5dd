package qbittorrent

import "errors"

// Common errors returned by the qBittorrent client.
var (
	// ErrNotAuthenticated is returned when login has not succeeded yet.
	ErrNotAuthenticated = errors.New("not authenticated with qBittorrent")

	// ErrConnectionFailed is returned when connection to qBittorrent fails.
	ErrConnectionFailed = errors.New("connection to qBittorrent failed")
)
