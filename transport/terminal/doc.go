// Package terminal lets a person play the human seat from a shell.
//
// The Terminal reads one command per line from a Prompter (a *liner.State
// in production), forwards it to the game service, and prints the outcome
// in color. Bot seats play automatically whenever the human ends a turn.
// Board and standings are printed as go-pretty tables.
//
//	line := liner.NewLiner()
//	defer line.Close()
//	line.SetCtrlCAborts(true)
//	err := terminal.New(svc, os.Stdout).Run(ctx, line, "classic")
//
// Typing help lists every command. Ctrl-C, end of input and quit all leave
// the loop cleanly.
package terminal
