package main

import (
	"os"

	"github.com/fieldcrew/crewaccess/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
