package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

var tuiInline bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Opens a terminal UI for searching every connected provider as --user.

Results show where they came from and which providers were unavailable.
The provider health screen (h from the menu) lists each provider's state.
Press ? inside the UI for all key bindings.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiInline, "inline", false, "render in the current screen instead of the alternate screen")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	user, err := requireUser()
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	ports := tui.NewPorts(rt.Search, rt.Health, user)
	ports.OrganizationID = orgID
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("create tui: %w", err)
	}
	app.WithContext(cmd.Context())

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("tui panic stack:\n%s", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()
	if err := app.Run(tuiInline); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
