package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/nestsh/core/shell"
	"github.com/josephlewis42/nestsh/shells/demo"
)

var (
	flagRootPrompt string
	flagHistoryDir string
	flagDebug      bool
)

var runCmd = &cobra.Command{
	Use:   "run [SCRIPT]",
	Short: "Start the demo shell",
	Long: `Start the demo shell.

Runs interactively on a terminal. With a SCRIPT argument ('-' for stdin), or
when stdin is not a terminal, lines are replayed in batch mode instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagRootPrompt != "" {
			cfg.RootPrompt = flagRootPrompt
		}
		if flagHistoryDir != "" {
			cfg.HistoryDir = flagHistoryDir
		}
		if flagDebug {
			cfg.Debug = true
		}

		opts := shell.Options{
			RootPrompt: cfg.RootPrompt,
			Debug:      cfg.Debug,
			History:    shell.NewHistoryStore(afero.NewOsFs(), cfg.HistoryDir),
		}

		switch {
		case len(args) == 1 && args[0] != "-":
			script, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}
			opts.Batch = true
			opts.Edit = shell.NewScriptEditLine(string(script), os.Stdout)

		case len(args) == 1 || !isatty.IsTerminal(os.Stdin.Fd()):
			script, err := ioutil.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			opts.Batch = true
			opts.Edit = shell.NewScriptEditLine(string(script), os.Stdout)

		default:
			term, err := shell.NewTermEditLine(os.Stdin, os.Stdout, os.Stderr)
			if err != nil {
				return err
			}
			defer term.Close()
			// Route output through the editor so the help overlay
			// redraws the prompt.
			opts.Edit = term
			opts.Stdout = term
		}

		sess, err := shell.New(demo.Root, opts)
		if err != nil {
			// Broken definitions must abort before any prompt is shown.
			return err
		}

		directive, err := sess.Run()
		if err != nil {
			return err
		}
		if cfg.Debug {
			fmt.Fprintf(os.Stderr, "DEBUG session ended: %v\n", directive)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagRootPrompt, "root-prompt", "", "the root prompt label")
	runCmd.Flags().StringVar(&flagHistoryDir, "history-dir", "", "the directory to save history files")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "turn debug information on")
	rootCmd.AddCommand(runCmd)
}
