// Package editor resolves the user's editor and runs it over staged files.
//
// The editor command line comes from the first non-empty override variable
// ($STAGEDIT_EDITOR, then $EDITOR, then $VISUAL by default) and may carry its
// own arguments. Without an override, a fixed list of well-known editors is
// tried in order; an editor that cannot be found moves on to the next one,
// any other failure stops the search.
//
// The environment is injected through Options.LookupEnv so resolution can be
// tested without touching the process environment.
package editor
