package main

import "fmt"

type versionCmd struct{}

func (v *versionCmd) Run(a *app) error {
	fmt.Fprintf(a.stdout, "clipmark version %s\n", version)
	if commit != "" {
		fmt.Fprintf(a.stdout, "commit %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(a.stdout, "built %s\n", date)
	}
	return nil
}
