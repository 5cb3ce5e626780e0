// Package cli provides the interactive instacli command-line client.
//
// It wires configuration, the local session database, the REST client, the
// realtime push channel and an interactive REPL. Typical flow: restore the
// stored session at startup, open the push channel for the active account,
// and execute user commands.
//
// Key features:
//   - Login / Register / Logout with a multi-account switcher
//   - Feed browsing with optimistic like/save/comment controls
//   - Activity feed with derived unread counts
//   - Direct messages with live incoming delivery
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command methods for details.
package cli
