// Package dashboard provides the embedded web UI assets for olevel.
//
// The embedded assets are served by the server package at the root path ("/").
// Users of the olevel library should not need to interact with this package
// directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Dashboard page with inline CSS and JavaScript
//
// The page title is written as {{.Title}} and substituted by the server.
//
//go:embed assets/*
var Assets embed.FS
