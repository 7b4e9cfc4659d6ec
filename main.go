package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/editor"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/glossapp/gloss/internal/backend"
	"github.com/glossapp/gloss/internal/settings"
)

// Build vars.
var (
	//nolint: gochecknoglobals
	version = "dev"
)

const appName = "gloss"

var (
	langFlag    string
	backendFlag string
	noCacheFlag bool
	copyFlag    bool
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "AI lookups for language learners, on the command line",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Open the settings file in your $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		store, err := settings.NewStore()
		if err != nil {
			return glossError{err, "Could not find the settings file."}
		}
		c, err := editor.Cmd(appName, store.Path())
		if err != nil {
			return glossError{err, "Could not edit your settings file."}
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return glossError{err, "Could not edit your settings file."}
		}
		if !isOutputTTY() {
			return nil
		}
		fmt.Println(
			"Wrote settings to",
			stdoutStyles().InlineCode.Render(store.Path()),
		)
		return nil
	},
}

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man page",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return glossError{err, "Could not generate man page."}
		}
		manPage = manPage.WithSection("Copyright", "Released under the MIT license.")
		fmt.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}

func init() {
	ids := make([]string, 0, len(backend.Descriptors()))
	for _, desc := range backend.Descriptors() {
		ids = append(ids, desc.ID)
	}

	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "english", "Reading language of the text being looked up.")
	rootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "", "Use a specific backend instead of the configured one ("+strings.Join(ids, ", ")+").")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the response cache for this lookup.")
	rootCmd.SetUsageFunc(usageFunc)

	rootCmd.AddCommand(
		defineCmd,
		pronounceCmd,
		simplifyCmd,
		equivalentCmd,
		phraseCmd,
		studyCmd,
		grammarCmd,
		meaningCmd,
		checkCmd,
		modelsCmd,
		cacheCmd,
		settingsCmd,
		manCmd,
	)
}

func useLine() string {
	name := appName
	if stdoutRenderer().ColorProfile() == termenv.TrueColor {
		name = makeGradientText(stdoutStyles().AppName, appName)
	}
	return fmt.Sprintf("%s %s", name, stdoutStyles().CliArgs.Render("[command] [flags] [args]"))
}

func usageFunc(cmd *cobra.Command) error {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Usage:\n  %s\n\n", useLine())
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, "Commands:")
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			fmt.Fprintf(
				w,
				"  %-24s %s\n",
				stdoutStyles().Flag.Render(sub.Name()),
				stdoutStyles().FlagDesc.Render(sub.Short),
			)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Flags:")
	printFlags := func(fs *flag.FlagSet) {
		fs.VisitAll(func(f *flag.Flag) {
			if f.Hidden {
				return
			}
			if f.Shorthand == "" {
				fmt.Fprintf(
					w,
					"      %-28s %s\n",
					stdoutStyles().Flag.Render("--"+f.Name),
					stdoutStyles().FlagDesc.Render(f.Usage),
				)
				return
			}
			fmt.Fprintf(
				w,
				"  %s, %-28s %s\n",
				stdoutStyles().Flag.Render("-"+f.Shorthand),
				stdoutStyles().Flag.Render("--"+f.Name),
				stdoutStyles().FlagDesc.Render(f.Usage),
			)
		})
	}
	printFlags(cmd.LocalFlags())
	printFlags(cmd.InheritedFlags())
	return nil
}

// resolveBackend picks the configured backend, or the one forced with
// --backend.
func resolveBackend() (backend.Backend, *settings.Store, error) {
	store, err := settings.NewStore()
	if err != nil {
		return nil, nil, glossError{err, "Could not find the settings file."}
	}
	factory := backend.NewFactory(store)
	if backendFlag != "" {
		b, err := factory.Get(backendFlag)
		if err != nil {
			return nil, nil, glossError{err, "There is no such backend."}
		}
		return b, store, nil
	}
	b, err := factory.Resolve()
	if err != nil {
		return nil, nil, glossError{err, "Could not resolve the configured backend."}
	}
	return b, store, nil
}

func handleError(err error) {
	// Styled rendering is for humans; a piped stderr gets one plain line.
	if !isErrTTY() {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return
	}
	s := stderrStyles()
	var ge glossError
	if errors.As(err, &ge) {
		fmt.Fprintf(os.Stderr, "\n%s %s\n\n%s\n\n",
			s.ErrorHeader.String(),
			ge.Reason(),
			s.ErrPadding.Render(s.ErrorDetails.Render(err.Error())),
		)
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n%s\n\n",
		s.ErrorHeader.String(),
		s.ErrPadding.Render(s.ErrorDetails.Render(err.Error())),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		handleError(err)
		os.Exit(1)
	}
}
