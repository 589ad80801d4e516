package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Arizalb/jokicbt/internal/app"
	"github.com/Arizalb/jokicbt/internal/credentials"
	"github.com/Arizalb/jokicbt/internal/quiz"
	"github.com/Arizalb/jokicbt/internal/screen"
	"github.com/Arizalb/jokicbt/internal/screens/dashboard"
	"github.com/Arizalb/jokicbt/internal/screens/exam"
)

// runApp opens the store, builds dependencies, and launches the TUI. With
// startNow the test screen opens above the dashboard right away.
func runApp(cmd *cobra.Command, startNow bool) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	api := e.api()
	events := e.store.EventRepo()
	results := e.store.ResultRepo()
	messages := quiz.Messages{Fetch: e.cfg.Messages.Fetch, Submit: e.cfg.Messages.Submit}

	start := func(creds credentials.Credentials) screen.Screen {
		return exam.New(exam.Deps{
			Source:   api,
			Scorer:   api,
			Creds:    creds,
			Messages: messages,
			Events:   events,
			Results:  results,
		})
	}

	opts := app.Options{
		Root: dashboard.New(dashboard.Deps{
			Creds:   e.creds,
			Saved:   e.store.CredentialRepo(),
			Results: results,
			Start:   start,
		}),
	}
	if startNow {
		if err := e.creds.Validate(); err != nil {
			return err
		}
		opts.Initial = start(e.creds)
	}

	return app.Run(opts)
}
