// Package edit implements the edit-and-install workflow.
//
// A Session holds the ordered set of targets to edit. The Installer stages
// each target into a hidden sibling file, opens every staged file in a single
// editor process, trims the templating scaffolding back out, and renames the
// staged files that still carry content over their targets:
//
//	s := edit.NewSession(edit.SessionOptions{Markers: &edit.Markers{Start: start, End: end}})
//	defer s.Cleanup()
//	s.Add("/etc/app/override.conf", "", []string{"/usr/lib/app/app.conf"})
//	result, err := edit.NewInstaller(edit.InstallerOptions{Launcher: l}).Run(ctx, s)
//
// Templated staging files look like this:
//
//	### Editing /etc/app/override.conf
//	<start marker>
//
//	<current contents of the target>
//
//	<end marker>
//
//	### /usr/lib/app/app.conf
//	# <commented contents of each comment source>
//
// Only the text between the markers survives trimming. A staging file trimmed
// down to nothing is never installed, so saving an untouched template leaves
// the target as it was.
//
// Cleanup must always run: it removes staging files that were not installed
// and, when configured, the targets' parent directories if they are empty.
package edit
