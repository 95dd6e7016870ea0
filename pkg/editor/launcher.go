package editor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

// Override variables, highest precedence first
const (
	EnvStageditEditor = "STAGEDIT_EDITOR"
	EnvEditor         = "EDITOR"
	EnvVisual         = "VISUAL"
)

// DefaultOverrideVars is the default override precedence.
var DefaultOverrideVars = []string{EnvStageditEditor, EnvEditor, EnvVisual}

// DefaultFallbacks are tried in order when no override is set.
var DefaultFallbacks = []string{"editor", "nano", "vim", "vi"}

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// EnvFromMap returns a LookupEnvFunc backed by m.
func EnvFromMap(m map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Options configures a Launcher. Zero values select the defaults.
type Options struct {
	LookupEnv    LookupEnvFunc
	OverrideVars []string
	Fallbacks    []string
	Runner       Runner
}

// Launcher runs the resolved editor over a set of files.
type Launcher struct {
	lookupEnv    LookupEnvFunc
	overrideVars []string
	fallbacks    []string
	runner       Runner
	logger       zerolog.Logger
}

// New creates a Launcher.
func New(opts Options) *Launcher {
	l := &Launcher{
		lookupEnv:    opts.LookupEnv,
		overrideVars: opts.OverrideVars,
		fallbacks:    opts.Fallbacks,
		runner:       opts.Runner,
		logger:       logging.GetLogger("editor"),
	}
	if l.lookupEnv == nil {
		l.lookupEnv = os.LookupEnv
	}
	if len(l.overrideVars) == 0 {
		l.overrideVars = DefaultOverrideVars
	}
	if len(l.fallbacks) == 0 {
		l.fallbacks = DefaultFallbacks
	}
	if l.runner == nil {
		l.runner = NewExecRunner()
	}
	return l
}

// Resolve returns the override editor command split into words and the
// variable it came from. It returns nil when no override is set.
func (l *Launcher) Resolve() ([]string, string) {
	for _, name := range l.overrideVars {
		value, ok := l.lookupEnv(name)
		if !ok {
			continue
		}
		if words := strings.Fields(value); len(words) > 0 {
			return words, name
		}
	}
	return nil, ""
}

// FileArgs builds the file part of the editor argv: "+<line>" when a single
// file is opened past its first line, then every path in order.
func FileArgs(paths []string, cursorLine int) []string {
	args := make([]string, 0, len(paths)+1)
	if len(paths) == 1 && cursorLine > 1 {
		args = append(args, fmt.Sprintf("+%d", cursorLine))
	}
	return append(args, paths...)
}

// Launch opens paths in the editor and waits for it to exit. cursorLine is
// only used when a single file is opened. The editor's exit status is not
// consulted.
func (l *Launcher) Launch(ctx context.Context, paths []string, cursorLine int) error {
	if len(paths) == 0 {
		return errors.New(errors.ErrInvalidInput, "no files to open in the editor")
	}

	fileArgs := FileArgs(paths, cursorLine)

	if words, variable := l.Resolve(); words != nil {
		args := append(append([]string{}, words[1:]...), fileArgs...)
		logging.LogCommand(words[0], args)

		if err := l.runner.Run(ctx, words[0], args); err != nil {
			return errors.Wrapf(err, errors.ErrEditorLaunch, "failed to run editor from $%s", variable).
				WithDetail("editor", words[0])
		}
		return nil
	}

	for _, name := range l.fallbacks {
		logging.LogCommand(name, fileArgs)

		err := l.runner.Run(ctx, name, fileArgs)
		if err == nil {
			return nil
		}
		if errors.IsErrorCode(err, errors.ErrEditorNotFound) {
			l.logger.Debug().Str("editor", name).Msg("Editor not available, trying next")
			continue
		}
		return errors.Wrapf(err, errors.ErrEditorLaunch, "failed to execute %q", name).
			WithDetail("editor", name)
	}

	return errors.Newf(errors.ErrEditorNotFound,
		"Cannot edit files, no editor available. Please set either %s.", l.varList())
}

// varList renders the override variables as "$A, $B or $C".
func (l *Launcher) varList() string {
	vars := make([]string, len(l.overrideVars))
	for i, v := range l.overrideVars {
		vars[i] = "$" + v
	}
	if len(vars) == 1 {
		return vars[0]
	}
	return strings.Join(vars[:len(vars)-1], ", ") + " or " + vars[len(vars)-1]
}
