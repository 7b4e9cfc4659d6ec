package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/glossapp/gloss/internal/backend"
	"github.com/glossapp/gloss/internal/proto"
	"github.com/glossapp/gloss/internal/settings"
)

func lang() proto.Language {
	return proto.ParseLanguage(langFlag)
}

func activeBackendID(s settings.Settings) string {
	if backendFlag != "" {
		return backendFlag
	}
	return s.Provider
}

// cached wraps a lookup in the response cache. Cache trouble never blocks
// the lookup itself.
func cached[T any](store *settings.Store, kind string, parts []string, fetch func() (T, error)) (T, error) {
	var zero T
	s, err := store.Load()
	if err != nil {
		return zero, err
	}
	if noCacheFlag || s.NoCache {
		return fetch()
	}
	db, err := dbAt(s.CachePath)
	if err != nil {
		return fetch()
	}
	defer db.Close() //nolint: errcheck

	id := activeBackendID(s)
	key := cacheKey(append([]string{id, kind, langFlag}, parts...)...)
	var out T
	if hit, err := db.Get(key, &out); err == nil && hit {
		return out, nil
	}
	out, err = fetch()
	if err != nil {
		return zero, err
	}
	_ = db.Put(key, id, kind, langFlag, out)
	return out, nil
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s %s\n", stdoutStyles().Label.Render(label+":"), stdoutStyles().Value.Render(value))
}

func copyOut(value string) error {
	if !copyFlag || value == "" {
		return nil
	}
	if err := clipboard.WriteAll(value); err != nil {
		return glossError{err, "Could not copy to the clipboard."}
	}
	return nil
}

var defineCmd = &cobra.Command{
	Use:   "define <word> [sentence]",
	Short: "Define a word, optionally as used in a sentence",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		word := args[0]
		sentence := ""
		if len(args) > 1 {
			sentence = args[1]
		}
		def, err := cached(store, "definition", args, func() (proto.Definition, error) {
			return b.Definition(cmd.Context(), word, sentence, lang())
		})
		if err != nil {
			return glossError{err, "Could not get a definition."}
		}
		printField("Definition", def.Text)
		printField("Translation", def.Translation)
		printField("Part of speech", def.PartOfSpeech)
		printField("Article", def.Article)
		return copyOut(def.Text)
	},
}

var pronounceCmd = &cobra.Command{
	Use:   "pronounce <word>...",
	Short: "IPA transcription for one or more words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			res, err := cached(store, "ipa", args, func() (proto.IPAResult, error) {
				return b.Pronunciation(cmd.Context(), args[0], lang())
			})
			if err != nil {
				return glossError{err, "Could not get the pronunciation."}
			}
			printField("IPA", res.IPA)
			printField("Syllables", res.Syllables)
			return copyOut(res.IPA)
		}
		results, err := cached(store, "ipa-batch", args, func() ([]proto.IPAResult, error) {
			return b.BatchPronunciation(cmd.Context(), args, lang())
		})
		if err != nil {
			return glossError{err, "Could not get the pronunciations."}
		}
		for i, res := range results {
			ipa := res.IPA
			if ipa == "" {
				ipa = stdoutStyles().Comment.Render("—")
			}
			fmt.Printf("%s %s\n", stdoutStyles().Label.Render(args[i]+":"), ipa)
		}
		return nil
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify <sentence>",
	Short: "Rewrite a sentence with simpler vocabulary and grammar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		simp, err := cached(store, "simplify", args, func() (proto.Simplification, error) {
			return b.Simplify(cmd.Context(), args[0], lang())
		})
		if err != nil {
			return glossError{err, "Could not simplify the sentence."}
		}
		printField("Simplified", simp.Simplified)
		printField("Original (EN)", simp.OriginalTranslation)
		printField("Simplified (EN)", simp.SimplifiedTranslation)
		return nil
	},
}

var equivalentCmd = &cobra.Command{
	Use:   "equivalent <word> <original sentence> <simplified sentence>",
	Short: "Find which word of a simplified sentence replaced a word of the original",
	Args:  cobra.ExactArgs(3), //nolint: gomnd
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := resolveBackend()
		if err != nil {
			return err
		}
		eq, err := b.EquivalentWord(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return glossError{err, "Could not find an equivalent word."}
		}
		if eq.NeedsRegeneration {
			fmt.Printf(
				"%s %s\n",
				stdoutStyles().Fail.Render("Not in the simplified sentence:"),
				eq.Equivalent,
			)
			fmt.Println(stdoutStyles().Comment.Render("Re-running the simplification, forcing the substitution…"))
			simp, err := b.ResimplifyForcingWord(cmd.Context(), args[1], args[0], eq.Equivalent, lang())
			if err != nil {
				return glossError{err, "Could not re-run the simplification."}
			}
			printField("Simplified", simp.Simplified)
			return nil
		}
		printField("Equivalent", eq.Equivalent)
		return nil
	},
}

var phraseCmd = &cobra.Command{
	Use:   "phrase <phrase> <sentence>",
	Short: "Explain a multi-word expression in its sentence",
	Args:  cobra.ExactArgs(2), //nolint: gomnd
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		pm, err := cached(store, "phrase", args, func() (proto.PhraseMeaning, error) {
			return b.PhraseMeaning(cmd.Context(), args[0], args[1], lang())
		})
		if err != nil {
			return glossError{err, "Could not explain the phrase."}
		}
		printField("Meaning", pm.Meaning)
		printField("Literal", pm.Literal)
		return nil
	},
}

var studyCmd = &cobra.Command{
	Use:   "study <word> [sentence]",
	Short: "Build a flashcard entry for a word",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		word := args[0]
		sentence := ""
		if len(args) > 1 {
			sentence = args[1]
		}
		entry, err := cached(store, "study", args, func() (proto.StudyEntry, error) {
			return b.StudyEntry(cmd.Context(), word, sentence, lang())
		})
		if err != nil {
			return glossError{err, "Could not build a study entry."}
		}
		printField("Definition", entry.Definition)
		printField("Example", entry.Example)
		printField("Example (EN)", entry.ExampleTranslation)
		return nil
	},
}

var grammarCmd = &cobra.Command{
	Use:   "grammar <sentence>",
	Short: "Explain the grammar of a sentence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		ga, err := cached(store, "grammar", args, func() (proto.GrammarAnalysis, error) {
			return b.GrammarAnalysis(cmd.Context(), args[0], lang())
		})
		if err != nil {
			return glossError{err, "Could not analyze the grammar."}
		}
		printField("Structure", ga.Structure)
		printField("Tenses", ga.Tenses)
		printField("Notes", ga.Notes)
		return nil
	},
}

var meaningCmd = &cobra.Command{
	Use:   "meaning <word> <sentence>",
	Short: "What a word means in one specific sentence",
	Args:  cobra.ExactArgs(2), //nolint: gomnd
	RunE: func(cmd *cobra.Command, args []string) error {
		b, store, err := resolveBackend()
		if err != nil {
			return err
		}
		cm, err := cached(store, "meaning", args, func() (proto.ContextualMeaning, error) {
			return b.ContextualMeaning(cmd.Context(), args[0], args[1], lang())
		})
		if err != nil {
			return glossError{err, "Could not explain the word."}
		}
		printField("Meaning", cm.Meaning)
		printField("Nuance", cm.Nuance)
		printField("Register", cm.Register)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [backend]",
	Short: "Test the connection to one or all backends",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore()
		if err != nil {
			return glossError{err, "Could not find the settings file."}
		}
		factory := backend.NewFactory(store)

		var descs []backend.Descriptor
		if len(args) > 0 {
			desc, ok := backend.DescriptorFor(args[0])
			if !ok {
				return glossError{fmt.Errorf("unknown backend %q", args[0]), "There is no such backend."}
			}
			descs = []backend.Descriptor{desc}
		} else {
			descs = backend.Descriptors()
		}

		if isOutputTTY() {
			fmt.Println(makeGradientText(stdoutStyles().AppName, appName))
		}

		statuses := make([]proto.ConnectionStatus, len(descs))
		// Probing is the one place concurrency is fine: diagnostics only,
		// no quota worth conserving.
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, desc := range descs {
			g.Go(func() error {
				b, err := factory.Get(desc.ID)
				if err != nil {
					statuses[i] = proto.ConnectionStatus{Message: err.Error()}
					return nil
				}
				statuses[i] = b.TestConnection(ctx)
				return nil
			})
		}
		_ = g.Wait()

		for i, desc := range descs {
			status := statuses[i]
			if status.OK {
				fmt.Printf(
					"%s %s %s\n",
					stdoutStyles().OK.Render("✓"),
					desc.Name,
					stdoutStyles().Comment.Render(fmt.Sprintf("(%d models)", len(status.Models))),
				)
				continue
			}
			fmt.Printf(
				"%s %s %s\n",
				stdoutStyles().Fail.Render("✗"),
				desc.Name,
				stdoutStyles().Comment.Render(status.Message),
			)
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show which model each backend would try next",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		store, err := settings.NewStore()
		if err != nil {
			return glossError{err, "Could not find the settings file."}
		}
		factory := backend.NewFactory(store)
		for _, desc := range backend.Descriptors() {
			next, err := factory.NextModel(desc.ID)
			if err != nil {
				return glossError{err, "Could not inspect the backend."}
			}
			if next == "" {
				next = stdoutStyles().Fail.Render("all models cooling down")
			} else {
				next = stdoutStyles().Model.Render(next)
			}
			fmt.Printf("%s %s\n", stdoutStyles().Label.Render(desc.Name+":"), next)
			if len(desc.Chain) > 0 {
				fmt.Printf("  %s\n", stdoutStyles().Comment.Render("chain: "+strings.Join(desc.Chain, " → ")))
			}
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help() //nolint: wrapcheck
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many responses are cached",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		db, err := openCacheDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck
		n, err := db.Count()
		if err != nil {
			return glossError{err, "Could not read the cache."}
		}
		fmt.Printf("%d cached responses\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached response",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		db, err := openCacheDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck
		if err := db.Clear(); err != nil {
			return glossError{err, "Could not clear the cache."}
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func openCacheDB() (*lookupDB, error) {
	store, err := settings.NewStore()
	if err != nil {
		return nil, glossError{err, "Could not find the settings file."}
	}
	s, err := store.Load()
	if err != nil {
		return nil, glossError{err, "Could not read the settings file."}
	}
	db, err := dbAt(s.CachePath)
	if err != nil {
		return nil, glossError{err, "Could not open the cache."}
	}
	return db, nil
}

func init() {
	defineCmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy the definition to the clipboard.")
	pronounceCmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy the transcription to the clipboard.")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
