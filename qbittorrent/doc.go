// Package qbittorrent provides a client for interacting with the qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library to provide the
// narrow surface the janitor needs: listing torrents, best-effort
// reannounces and batched deletion.
//
// Authentication is cached and lazy. Any transport failure invalidates the
// cached session so the next call logs in again, which lets the cycle loop
// survive qBittorrent restarts without intervention.
//
//	client := qbittorrent.NewClient(host, port, user, pass, timeout, verifySSL, logger)
//	torrents, err := client.ListTorrents(ctx)
package qbittorrent
