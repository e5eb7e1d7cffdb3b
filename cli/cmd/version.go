package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/nrs/pkg"
)

// Version prints the program name and version.
type Version struct {
	Short bool `help:"Print only the version number" short:"s"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	var err error
	if v.Short {
		_, err = fmt.Fprintln(stdoutFrom(ctx), pkg.Version)
	} else {
		_, err = fmt.Fprintln(stdoutFrom(ctx), pkg.Name, "version", pkg.Version)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
