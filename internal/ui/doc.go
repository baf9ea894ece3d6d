// Package ui provides terminal output components for the billwise CLI.
//
// Components render with Lipgloss and follow a "print and move on" pattern:
// they do not read keys or redraw. The interactive application lives in
// package tui.
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure and warning boxes
//   - RenderPrediction: predicted amount, breakdown and charge shares
//   - RenderTips: the savings tips list
//   - Loader: spinner shown while tips are fetched
//
// A Printer ties these together for a single output stream:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Bill Prediction", "billwise predict",
//	    ui.Detail{Key: "Service", Value: client.BaseURL})
//	p.PrintView(machine.View())
//
// Logging is controlled by BILLWISE_LOG_LEVEL. When it is unset zap is
// silent so the styled output stays clean.
package ui
