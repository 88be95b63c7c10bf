package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/mvolkoff/beseda/internal/app"
	"github.com/mvolkoff/beseda/internal/profile"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	offlineFlag := flag.Bool("offline", false, "run against the seeded fixture database instead of a server")
	serverFlag := flag.String("server", "", "server base URL (overrides config)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fx.New(
		app.Module(app.Params{
			Profile:   profileName,
			Offline:   *offlineFlag,
			ServerURL: *serverFlag,
		}),
	).Run()
}
