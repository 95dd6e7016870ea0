package stagedit

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stagedit/pkg/config"
	"github.com/arthur-debert/stagedit/pkg/edit"
	"github.com/arthur-debert/stagedit/pkg/editor"
	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/filesystem"
	"github.com/arthur-debert/stagedit/pkg/label"
	"github.com/arthur-debert/stagedit/pkg/logging"
	"github.com/arthur-debert/stagedit/pkg/ui/styles"
)

// editFlags holds the flags of the root edit command
type editFlags struct {
	original          string
	comments          []string
	markerStart       string
	markerEnd         string
	noTemplate        bool
	removeEmptyParent bool
	labelMode         string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		noColor    bool
		configFile string
		flags      editFlags
	)

	// Initialize custom template functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "stagedit [flags] FILE...",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				styles.DisableColor()
			}
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.ErrNoFiles, MsgErrNoFiles)
			}
			cfg, err := config.Load(config.LoadOptions{
				ConfigFile: configFile,
				Overrides:  flagOverrides(cmd, &flags),
			})
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			return runEdit(cmd, cfg, &flags, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, MsgFlagNoColor)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", MsgFlagConfig)

	f := rootCmd.Flags()
	f.StringVarP(&flags.original, "original", "o", "", MsgFlagOriginal)
	f.StringArrayVarP(&flags.comments, "comment", "c", nil, MsgFlagComment)
	f.StringVar(&flags.markerStart, "marker-start", "", MsgFlagMarkerStart)
	f.StringVar(&flags.markerEnd, "marker-end", "", MsgFlagMarkerEnd)
	f.BoolVar(&flags.noTemplate, "no-template", false, MsgFlagNoTemplate)
	f.BoolVar(&flags.removeEmptyParent, "remove-empty-parent", false, MsgFlagRemoveEmptyParent)
	f.StringVar(&flags.labelMode, "label", "", MsgFlagLabel)

	_ = rootCmd.RegisterFlagCompletionFunc("label", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(label.ModeNone), string(label.ModeXattr)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newConfigCmd(&configFile))
	rootCmd.AddCommand(newFormatCmd())

	return rootCmd
}

// flagOverrides maps explicitly set flags onto config keys
func flagOverrides(cmd *cobra.Command, flags *editFlags) map[string]interface{} {
	overrides := map[string]interface{}{}
	changed := cmd.Flags().Changed

	if changed("marker-start") {
		overrides["markers.start"] = flags.markerStart
	}
	if changed("marker-end") {
		overrides["markers.end"] = flags.markerEnd
	}
	if changed("remove-empty-parent") {
		overrides["cleanup.remove_empty_parent"] = flags.removeEmptyParent
	}
	if changed("label") {
		overrides["label.mode"] = flags.labelMode
	}
	return overrides
}

// runEdit registers every FILE, runs the editor once over all of them and
// reports what was installed
func runEdit(cmd *cobra.Command, cfg *config.Config, flags *editFlags, args []string) error {
	logger := logging.GetLogger("cmd.edit")

	if flags.original != "" && len(args) > 1 {
		return errors.New(errors.ErrInvalidInput, MsgErrOriginalSingle)
	}

	templated := cfg.Markers.Enabled && !flags.noTemplate && flags.original == ""

	var markers *edit.Markers
	var comments []string
	if templated {
		markers = &edit.Markers{Start: cfg.Markers.Start, End: cfg.Markers.End}
		// Non-nil selects the template even without comment files.
		comments = make([]string, 0, len(flags.comments))
		for _, c := range flags.comments {
			abs, err := filepath.Abs(c)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %q", c)
			}
			comments = append(comments, abs)
		}
	}

	fsys := filesystem.NewOS()
	session := edit.NewSession(edit.SessionOptions{
		FS:                fsys,
		Markers:           markers,
		RemoveEmptyParent: cfg.Cleanup.RemoveEmptyParent,
	})
	defer session.Cleanup()

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %q", arg)
		}
		original := path
		if flags.original != "" {
			if original, err = filepath.Abs(flags.original); err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid path %q", flags.original)
			}
		}
		if !session.Add(path, original, comments) {
			logger.Warn().Str("path", path).Msg("File given more than once, editing it once")
		}
	}

	labeler := label.New(label.Mode(cfg.Label.Mode))
	launcher := editor.New(editor.Options{
		OverrideVars: overrideVars(cfg.Editor.OverrideVar),
		Fallbacks:    cfg.Editor.Fallbacks,
	})

	out := cmd.OutOrStdout()
	installer := edit.NewInstaller(edit.InstallerOptions{
		FS:       fsys,
		Labeler:  labeler,
		Launcher: launcher,
		OnInstalled: func(path string) {
			fmt.Fprintln(out, styles.Render("Success", fmt.Sprintf(MsgInstalled, path)))
		},
	})

	ctx, stop := withSignals(cmd.Context())
	defer stop()

	result, err := installer.Run(ctx, session)
	if err != nil {
		return err
	}

	printResult(cmd.ErrOrStderr(), result)
	if len(result.Failed) > 0 {
		return errors.Wrapf(result.Err(), errors.ErrInstall, MsgErrPartial, len(result.Failed), session.Len())
	}
	return nil
}

// overrideVars puts the configured variable ahead of $EDITOR and $VISUAL
func overrideVars(first string) []string {
	vars := []string{}
	for _, v := range []string{first, editor.EnvEditor, editor.EnvVisual} {
		if v == "" {
			continue
		}
		seen := false
		for _, existing := range vars {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			vars = append(vars, v)
		}
	}
	return vars
}

// withSignals cancels the returned context on SIGTERM or SIGHUP. SIGINT is
// caught and dropped while the editor runs so that ^C only reaches the editor.
func withSignals(parent context.Context) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGHUP)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-interrupts:
				log.Debug().Msg("Interrupt received, leaving it to the editor")
			case <-done:
				return
			}
		}
	}()

	return ctx, func() {
		signal.Stop(interrupts)
		close(done)
		cancel()
	}
}

func printResult(w io.Writer, result *edit.Result) {
	for _, path := range result.Skipped {
		fmt.Fprintln(w, styles.Render("Warning", fmt.Sprintf(MsgSkipped, path)))
	}
	for _, f := range result.Failed {
		fmt.Fprintln(w, styles.Render("Error", fmt.Sprintf(MsgInstallError, f.Path, f.Err)))
	}
}
