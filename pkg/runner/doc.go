/*
Package runner implements the interactive question loop around the engine.

It is the bridge between a session and the outside world: it presents the
current question, reads and sanitizes the answer, submits it, persists the
state and shows a live ranking preview.

# Key Components

  - Runner: the loop itself.
  - IOHandler: decouples presentation (TextHandler for terminals, JSONHandler
    for automation) from the loop.
  - SanitizeInput: size, UTF-8 and control character checks on raw input.

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("paciente-1"),
		runner.WithStore(file.New("")),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	state, err := r.Run(ctx, engine)
*/
package runner
