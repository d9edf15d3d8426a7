// Command formsapi serves the form builder HTTP API.
//
// @title                       Forms API
// @version                     1.0
// @description                 Form builder: form definitions, submissions and accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCmd(nil).ExecuteContext(context.Background()); err != nil {
		// The singleton may not be initialised yet: config errors happen first.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Error().Err(err).Msg("formsapi exited with error")
		os.Exit(1)
	}
}
