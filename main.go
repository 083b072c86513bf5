package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/decker502/halabi/pkg/app"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/embedded"
	"github.com/decker502/halabi/pkg/logging"
	"github.com/decker502/halabi/pkg/term"
)

var (
	// 全局参数
	verbose   bool
	configDir string
	theme     string
	watch     bool

	restoreLogger func()
)

// rootCmd 默认打开展示窗口
var rootCmd = &cobra.Command{
	Use:   "halabi",
	Short: "Halabi services showcase",
	Long: `Halabi is a native services-marketplace showcase: a particle background,
service cards that tilt toward the pointer, a before/after fitting room and
an AI marketing studio backed by Gemini.

Run without arguments to open the window.

Environment:
  GEMINI_API_KEY          API key for the AI studio (falls back to API_KEY)
  HALABI_MOBILE_EMULATE   set to 1 to emulate a touch-only device`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		restore, err := logging.Init(verbose)
		if err != nil {
			return err
		}
		restoreLogger = restore
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if restoreLogger != nil {
			restoreLogger()
		}
	},
	RunE: runWindow,
}

// runCmd 打开展示窗口
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the showcase window",
	Long: `Opens the showcase window.

Keys:
  T theme   H chat   G copy   C campaign   R trends   D describe
  E AI edit of the fitting room   ←/→ move the split   0-9 filter
  P portfolio   M mute speech   -/= speech volume   F11 fullscreen`,
	RunE: runWindow,
}

// termCmd 终端预览
var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Preview the particle field and fitting room in the terminal",
	Long: `Runs the particle field and the before/after slider in the terminal.
Drag the slider with the mouse or use the arrow keys; t toggles the theme, q quits.`,
	RunE: runTerm,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory with effects.yaml / site.yaml overrides")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "Theme to start with (dark|light)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Reload effects.yaml from --config on change")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Reload effects.yaml from --config on change")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(termCmd)
	rootCmd.AddCommand(aiCmd)
	rootCmd.AddCommand(leadCmd)
}

func main() {
	// 初始化嵌入资源
	embedded.Init(dataFS)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWindow(cmd *cobra.Command, args []string) error {
	a, err := app.NewApp(app.Config{ConfigDir: configDir, Theme: theme, Watch: watch})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("game loop exited: %w", err)
	}
	return nil
}

func runTerm(cmd *cobra.Command, args []string) error {
	effects, err := config.NewLoader(configDir).LoadEffects()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	preview, err := term.New(screen, term.Options{Effects: effects, Theme: theme})
	if err != nil {
		return err
	}
	defer preview.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Debug("terminal preview started")
	if err := preview.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
