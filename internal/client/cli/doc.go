// Package cli provides the interactive education-center admin console.
//
// It wires configuration, local storage, the REST client, the session and
// preferences stores and the resource services, then runs a REPL in which
// every screen of the admin panel is reachable by path:
//
//   - login / logout / whoami
//   - go <path> and nav to move between screens, gated by role
//   - list screens with search, filters, add/edit/show and row actions
//   - dashboard, global search, profile and password
//   - theme, menu, width and branch preferences
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
