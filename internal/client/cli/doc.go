// Package cli provides the interactive castkeeper terminal client.
//
// It wires configuration, the session store and its persister, the REST
// gateway and the screen controllers behind a REPL. Every location change
// goes through route.Guard: signed-out users are sent to the login screen,
// signed-in users are kept out of the auth screens.
//
// Screens and their commands:
//   - Login, register, forgot password
//   - Email verification and password reset, each with an OTP widget whose
//     resend cooldown runs while the screen is open
//   - Profile: name, password, avatar upload and removal, logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
