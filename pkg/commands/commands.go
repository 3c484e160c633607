package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/taskflow/pkg/account"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskflow",
		Short: options.Wrap80("Tasks, calendars and a team journal on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	registerWorkspaceCompletion(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addBoard(topLevel)
	addKey(topLevel)
	addAdd(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addViews(topLevel)
	addComplete(topLevel)
	addReport(topLevel)
	addJournal(topLevel)
	addThought(topLevel)
	addWorkspace(topLevel)
	addInvite(topLevel)
	addMode(topLevel)
	addWatch(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

// withService loads configuration and the store, then runs fn with a service for the
// configured user.
func withService(fn func(a *app.Service) error) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "taskflow: close store: %v\n", err)
		}
	}()
	return fn(&app.Service{
		Persistence: p,
		Accounts:    account.ConfigProvider{Config: viper.GetViper()},
	})
}

// run is the RunE body shared by most commands.
func run(cmd *cobra.Command, fn func(ctx context.Context, a *app.Service) error) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err := withService(func(a *app.Service) error {
		return fn(ctx, a)
	})
	if errors.Is(err, account.ErrNotAuthenticated) {
		err = fmt.Errorf("%w: set user.id in ~/.taskflow.yaml or export TASKFLOW_USER_ID", err)
	}
	return output.HandleError(err)
}

// dueDate resolves a --due value. Empty input means no due date.
func dueDate(raw string) (task.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	t, err := options.ParseDay(raw, time.Now())
	if err != nil {
		return "", fmt.Errorf("invalid --due %q: %w", raw, err)
	}
	return task.DateOf(t), nil
}

func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("requires %s", what)
		}
		return nil
	}
}
