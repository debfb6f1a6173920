// Package cli provides the interactive drscreen terminal client.
//
// App wraps a controller and keeps the current Session; every command
// passes the session's user id to the controller explicitly. The REPL is
// started with App.Run, which blocks until the user exits or input ends.
//
// Commands:
//   - signup, login, logout
//   - analyze <path>: classify a fundus image
//   - history, summary, delete <id>
//   - profile, editprofile, passwd, deleteaccount
//   - help, exit | quit
package cli
