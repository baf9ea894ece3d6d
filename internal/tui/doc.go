// Package tui implements the interactive terminal client for billwise.
//
// Built on Bubble Tea, it follows the Elm architecture: each screen is a
// model with Update and View, and AppModel coordinates screen transitions.
//
// # Screens
//
//   - Predict: the prediction form, the result panel with its breakdown, and
//     the saving tips panel
//   - Signup: email and password inputs validated as they are typed, with a
//     show/hide password toggle
//   - Discovery: finds prediction services over mDNS, or takes a URL typed
//     by hand
//
// Every screen is wrapped by RenderApplicationContainer, which draws the
// application header, the screen content and a help footer built with
// bubbles/help.
//
// # Requests
//
// The prediction screen owns a session.Machine. Submitting the form or asking
// for tips produces a session.Effect, which runs as a tea.Cmd off the update
// loop. Its outcome comes back as a message and is applied to the machine in
// Update, so all state changes happen on one goroutine. Outcomes are applied
// in arrival order: when two predictions overlap, the one that arrives last
// is shown.
//
// Usage:
//
//	app := tui.NewAppModel(tui.Options{Client: client, Registry: registry})
//	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package tui
