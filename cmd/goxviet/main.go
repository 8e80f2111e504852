package main

import (
	"fmt"
	"os"

	"goxviet/internal/app"
	"goxviet/internal/cli"
	"goxviet/pkg/api"
)

func main() {
	opts, err := cli.Parse(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "goxviet: %v\n", err)
		os.Exit(1)
	}

	if opts.ShowHelp {
		fmt.Println(cli.Usage())
		return
	}

	if opts.ShowVersion {
		var v api.VersionInfo
		api.GetVersion(&v)
		fmt.Printf("goxviet %d.%d.%d (api %d)\n", v.Major, v.Minor, v.Patch, v.APIVersion)
		return
	}

	if err := app.NewRuntime(opts).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "goxviet: %v\n", err)
		os.Exit(1)
	}
}
