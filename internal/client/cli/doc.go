// Package cli is the voicediary command line: an interactive shell for
// recording and browsing diary entries, plus one-shot cobra subcommands.
//
// The shell works offline against the local diary. Once logged in, writes
// are mirrored to the server and the social commands become available.
// The login survives restarts through the session database.
//
// Shell commands:
//   - help, exit | quit
//   - register, login, logout
//   - new [date]           record an entry (photo, recording, review, privacy)
//   - show <date>, list
//   - finalize <date>      replace the summary once
//   - public <date>, private <date>
//   - friends, add-friend <user>, accept <user>, requests, notifications
//   - view <user>          a friend's public entries
//   - push                 upload every local entry
package cli
