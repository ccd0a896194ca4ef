package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/blogindex/internal/config"
	ferrors "git.home.luguber.info/inful/blogindex/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force, os.Stdout)
}

func RunInit(configPath string, force bool, out io.Writer) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialization failed").
			UserAction().
			WithFile(configPath).
			Build()
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
