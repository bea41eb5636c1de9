package main

import (
	"eurofx/internal/app"
	"os"

	"github.com/sirupsen/logrus"
)

// @title EUR FX Rates API
// @version 1.0
// @description Bundesbank EUR reference rates: lookups by date, conversion to EUR and history reloads.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped with error")
		os.Exit(1)
	}
}
