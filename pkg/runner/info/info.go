package info

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/store"
)

// Info prints where configuration and records come from, then the effective settings.
type Info struct {
	Config store.Config
	App    *app.Service
	Format printers.Format
}

func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	settings := viper.AllSettings()
	if n.Format.Structured() {
		return n.Format.Encode(settings)
	}

	out := color.Output
	if override := os.Getenv("TASKFLOW_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "TASKFLOW_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "TASKFLOW_CONFIG_PATH env var not set")
	}
	if used := viper.ConfigFileUsed(); used != "" {
		_, _ = fmt.Fprintln(out, "Config file:", used)
	}
	_, _ = fmt.Fprintln(out, "Store path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Backend:", n.Config.Backend())

	if n.App != nil {
		if sess, err := n.App.Session(ctx); err == nil {
			_, _ = fmt.Fprintf(out, "User: %s %s\n", sess.UserID, sess.DisplayName)
		}
		if prof, err := n.App.Profile(ctx); err == nil {
			_, _ = fmt.Fprintln(out, "Mode:", prof.AppMode)
		}
	}

	_, _ = fmt.Fprintln(out, "")
	return printers.YAML(out, settings)
}
