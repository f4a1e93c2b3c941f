// tarjim — PHP language-file translator: extracts translatable entries
// from PHP associative-array files and translates them into Arabic
// using AI providers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/tarjimlab/tarjim/cache"
	"github.com/tarjimlab/tarjim/classify"
	"github.com/tarjimlab/tarjim/i18n"
	"github.com/tarjimlab/tarjim/phpfile"
	"github.com/tarjimlab/tarjim/project"
	"github.com/tarjimlab/tarjim/settings"
	"github.com/tarjimlab/tarjim/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tarjim",
		Short: "PHP language-file translator with AI-powered Arabic translation",
		Long: `tarjim — PHP language-file translator.

Extracts 'key' => 'value' pairs from PHP associative-array language files,
tracks which entries still need translation, translates them into Arabic
with AI providers, and writes the results back preserving formatting.

Commands:
  scan        Show file statistics, duplicates, and validation findings
  translate   Translate untranslated entries using AI
  export      Export entries to CSV
  validate    Check translations for common problems
  projects    Save, list, and restore translation sessions
  cache       Inspect or clear the translation cache
  config      Show or change stored settings

AI Providers:
  openai      OpenAI GPT models — API key (sk-...)
  google      Google AI (Gemini) — API key`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScanCmd(),
		newTranslateCmd(),
		newExportCmd(),
		newValidateCmd(),
		newProjectsCmd(),
		newCacheCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tarjim version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// scan (read-only: statistics, duplicates, validation summary)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "scan <file.php>",
		Short: "Show file statistics, duplicates, and validation findings",
		Long: `Extract entries from a PHP language file and report translation
statistics. Does not modify any files.

The --status filter lists matching entries: all, translated, untranslated,
or needed (entries that need translation).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(args[0])
			if err != nil {
				return err
			}
			runScan(f, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "List entries by status (all, translated, untranslated, needed)")
	return cmd
}

func runScan(f *phpfile.File, status string) {
	stats := f.Statistics()

	logInfo("File: %s (%s)", f.Path, f.Encoding)
	fmt.Printf("  Entries:            %d\n", stats.TotalItems)
	fmt.Printf("  Need translation:   %d\n", stats.NeedsTranslation)
	fmt.Printf("  Translated:         %d (auto %d, manual %d)\n",
		stats.Translated, stats.AutoTranslated, stats.ManualTranslated)
	fmt.Printf("  Already Arabic:     %d\n", stats.ArabicOriginally)
	fmt.Printf("  Remaining:          %d\n", stats.Remaining)
	fmt.Printf("  Progress:           %d%%\n", stats.ProgressPercent)

	if dups := f.Duplicates(); len(dups) > 0 {
		logWarning("%d duplicate value(s):", len(dups))
		for _, d := range dups {
			fmt.Printf("  %q at lines %d and %d (keys %q, %q)\n",
				d.Text, d.Lines[0], d.Lines[1], d.Keys[0], d.Keys[1])
		}
	}

	if issues := f.Validate(); len(issues) > 0 {
		logWarning("%d validation finding(s); run 'tarjim validate' for details", len(issues))
	}

	if status != "" {
		filter := status
		if filter == "needed" {
			filter = classify.StatusUntranslated
		}
		items := f.StatusItems(filter)
		fmt.Printf("\n%d entr%s with status %q:\n", len(items), pluralYIes(len(items)), status)
		for _, it := range items {
			fmt.Printf("  %4d  %-30s %s\n", it.LineNumber, it.Key, it.TranslatedValue)
		}
	}
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// ---------------------------------------------------------------------------
// translate (batch AI translation with progress bar)
// ---------------------------------------------------------------------------

type translateArgs struct {
	path     string
	provider string
	model    string
	apiKey   string
	output   string
	economy  bool
	dryRun   bool
	yes      bool
	noBackup bool
	noCache  bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate <file.php>",
		Short: "Translate untranslated entries using AI",
		Long: `Translate every entry that needs translation into Arabic and write
the result back into the file (or to --output).

The provider API key is resolved from --api-key, then the
TARJIM_<PROVIDER>_API_KEY environment variable, then stored settings.
A timestamped backup is written next to the file unless --no-backup
is given. --economy picks the cheapest configured model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.path = args[0]
			return runTranslate(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&a.provider, "provider", "", "Translation provider (openai, google)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (default per provider)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "Provider API key (overrides settings)")
	cmd.Flags().StringVarP(&a.output, "output", "o", "", "Write the result to this path instead of in place")
	cmd.Flags().BoolVar(&a.economy, "economy", false, "Use the cheapest configured model")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Translate but do not write the file")
	cmd.Flags().BoolVarP(&a.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&a.noBackup, "no-backup", false, "Skip the timestamped backup")
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Bypass the translation cache")
	return cmd
}

func runTranslate(ctx context.Context, a translateArgs) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	f, err := loadFile(a.path)
	if err != nil {
		return err
	}

	indexes := f.UntranslatedIndexes()
	if len(indexes) == 0 {
		logSuccess(i18n.T("Nothing to translate"))
		return nil
	}
	logInfo("%d entries need translation", len(indexes))

	cfg := settings.Load()
	manager, engineName, err := buildManager(cfg, a)
	if err != nil {
		return err
	}
	logInfo("Provider model: %s", engineName)

	words := 0
	texts := make([]string, len(indexes))
	for i, idx := range indexes {
		texts[i] = f.Items[idx].OriginalValue
		words += classify.WordCount(texts[i])
	}
	if cost := translate.EstimateCost(words, engineName); cost > 0 {
		logInfo("Estimated cost: $%.4f (%d words)", cost, words)
	}

	if !a.yes {
		var proceed bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Translate %d entries with %s?", len(indexes), engineName),
			Default: true,
		}
		if err := survey.AskOne(prompt, &proceed); err != nil {
			return err
		}
		if !proceed {
			logInfo("Cancelled")
			return nil
		}
	}

	translated, err := translateWithProgress(ctx, manager, engineName, texts)
	if err != nil {
		return err
	}

	applied := 0
	for i, idx := range indexes {
		if translated[i] == texts[i] {
			continue // declined or failed, leave untouched
		}
		if f.Update(idx, translated[i], phpfile.TypeAuto) {
			applied++
		}
	}
	logSuccess("Translated %d of %d entries", applied, len(indexes))

	if a.dryRun {
		for i, idx := range indexes {
			if translated[i] != texts[i] {
				fmt.Printf("  %4d  %-30s %s\n", f.Items[idx].LineNumber, f.Items[idx].Key, translated[i])
			}
		}
		logInfo("Dry run, file not written")
		return nil
	}
	if applied == 0 {
		logWarning("No entries translated, file not written")
		return nil
	}

	written, err := f.Save(a.output, !a.noBackup && cfg.Backup)
	if err != nil {
		return err
	}
	logSuccess("Wrote %s", written)
	return nil
}

// buildManager assembles the engine registry for a run and returns the
// registry plus the engine name to use.
func buildManager(cfg *settings.Settings, a translateArgs) (*translate.Manager, string, error) {
	provider := a.provider
	if provider == "" {
		provider = cfg.Provider
	}
	model := a.model
	if model == "" {
		model = cfg.Model
	}
	if model == "" {
		model = translate.DefaultModel(provider)
	}

	key := a.apiKey
	if key == "" {
		key = cfg.APIKey(provider)
	}
	if !translate.ValidateAPIKey(provider, key) {
		return nil, "", fmt.Errorf("no valid API key for provider %q; run 'tarjim config set-key %s <key>'", provider, provider)
	}

	var mem translate.Cache
	if !a.noCache {
		path, err := settings.CachePath()
		if err != nil {
			return nil, "", err
		}
		mem = cache.Load(path, logWarning)
	}
	glossary := translate.DefaultGlossary().Merge(cfg.Terminology)

	addEngine := func(m *translate.Manager, prov, provKey, provModel string) error {
		backend, err := translate.NewBackend(prov, provKey, provModel)
		if err != nil {
			return err
		}
		m.Add(backend.Model(), translate.NewEngine(backend, translate.EngineOptions{
			Cache:    mem,
			Glossary: glossary,
			Warn:     logWarning,
		}))
		return nil
	}

	manager := translate.NewManager()
	if err := addEngine(manager, provider, key, model); err != nil {
		return nil, "", err
	}
	name := model

	// Economy mode considers every provider with a usable key and
	// picks the cheapest known model among them.
	if a.economy {
		for _, prov := range []string{translate.ProviderOpenAI, translate.ProviderGoogle} {
			if prov == provider {
				continue
			}
			provKey := cfg.APIKey(prov)
			if !translate.ValidateAPIKey(prov, provKey) {
				continue
			}
			if err := addEngine(manager, prov, provKey, ""); err != nil {
				return nil, "", err
			}
		}
		if eco := manager.EconomyEngine(); eco != "" {
			name = eco
		}
	}
	manager.SetCurrent(name)
	return manager, name, nil
}

// translateWithProgress runs the batch with an mpb progress bar.
func translateWithProgress(ctx context.Context, manager *translate.Manager, name string, texts []string) ([]string, error) {
	p := mpb.New(mpb.WithWidth(60), mpb.WithOutput(os.Stderr))
	bar := p.AddBar(int64(len(texts)),
		mpb.PrependDecorators(
			decor.Name(i18n.T("Translating..."), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Counters(0, " | %d/%d"),
		),
	)

	start := time.Now()
	prev := 0
	results, err := manager.TranslateBatch(ctx, texts, name, func(done, total int) {
		bar.IncrBy(done - prev)
		prev = done
	})
	if err != nil {
		bar.Abort(true)
		p.Wait()
		return nil, err
	}
	p.Wait()
	logInfo("Batch finished in %s", time.Since(start).Round(time.Second))
	return results, nil
}

// ---------------------------------------------------------------------------
// export (CSV)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file.php>",
		Short: "Export entries to CSV",
		Long: `Write all extracted entries with their translation state to a CSV
file. The file is UTF-8 with a byte order mark so spreadsheet
applications detect the encoding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(args[0])
			if err != nil {
				return err
			}
			out := output
			if out == "" {
				out = strings.TrimSuffix(args[0], ".php") + ".csv"
			}
			if err := f.ExportCSV(out); err != nil {
				return err
			}
			logSuccess("Exported %d entries to %s", len(f.Items), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path (default: alongside the source)")
	return cmd
}

// ---------------------------------------------------------------------------
// validate (translation problem report)
// ---------------------------------------------------------------------------

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.php>",
		Short: "Check translations for common problems",
		Long: `Report entries with empty translations, translations identical to
the original, or HTML tags that do not match the original. Exits
non-zero when findings exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(args[0])
			if err != nil {
				return err
			}
			issues := f.Validate()
			if len(issues) == 0 {
				logSuccess("No problems found in %d entries", len(f.Items))
				return nil
			}
			for _, issue := range issues {
				fmt.Printf("  line %4d  %-22s %s\n", issue.Line, issue.Kind, issue.Message)
			}
			return fmt.Errorf("%d validation finding(s)", len(issues))
		},
	}
}

// ---------------------------------------------------------------------------
// projects (save / list / load translation sessions)
// ---------------------------------------------------------------------------

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Save, list, and restore translation sessions",
	}
	cmd.AddCommand(newProjectsSaveCmd(), newProjectsListCmd(), newProjectsLoadCmd())
	return cmd
}

func projectStore() (*project.Store, error) {
	dir, err := settings.ProjectsDir()
	if err != nil {
		return nil, err
	}
	return project.NewStore(dir), nil
}

func newProjectsSaveCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <file.php>",
		Short: "Snapshot the current translation state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFile(args[0])
			if err != nil {
				return err
			}
			store, err := projectStore()
			if err != nil {
				return err
			}
			path, err := store.Save(name, f)
			if err != nil {
				return err
			}
			logSuccess("Saved project to %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: timestamp-derived)")
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := projectStore()
			if err != nil {
				return err
			}
			projects := store.List()
			if len(projects) == 0 {
				logInfo("No saved projects in %s", store.Dir())
				return nil
			}
			for _, p := range projects {
				created := time.Unix(p.CreatedAt, 0).Format("2006-01-02 15:04")
				fmt.Printf("  %-30s %s\n", p.Name, created)
			}
			return nil
		},
	}
}

func newProjectsLoadCmd() *cobra.Command {
	var name string
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "load <file.php>",
		Short: "Apply a saved snapshot to a file",
		Long: `Re-extract the file and apply the snapshot's translations to
matching entries, then write the file back. Without --name an
interactive picker lists the saved projects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := projectStore()
			if err != nil {
				return err
			}

			if name == "" {
				projects := store.List()
				if len(projects) == 0 {
					return errors.New("no saved projects")
				}
				options := make([]string, len(projects))
				for i, p := range projects {
					options[i] = fmt.Sprintf("%s (%s)", p.Name,
						time.Unix(p.CreatedAt, 0).Format("2006-01-02 15:04"))
				}
				var picked string
				prompt := &survey.Select{Message: "Project to load:", Options: options, PageSize: 15}
				if err := survey.AskOne(prompt, &picked); err != nil {
					return err
				}
				for i, opt := range options {
					if opt == picked {
						name = projects[i].Name
						break
					}
				}
			}

			snap, err := store.Load(name)
			if err != nil {
				return err
			}
			f, err := loadFile(args[0])
			if err != nil {
				return err
			}

			applied := snap.Apply(f)
			if applied == 0 {
				logWarning("Snapshot %q matched no entries, file not written", snap.Name)
				return nil
			}

			written, err := f.Save("", !noBackup)
			if err != nil {
				return err
			}
			logSuccess("Applied %d translation(s) from %q to %s", applied, snap.Name, written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (default: interactive picker)")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the timestamped backup")
	return cmd
}

// ---------------------------------------------------------------------------
// cache (stats / clear)
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size and location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settings.CachePath()
			if err != nil {
				return err
			}
			c := cache.Load(path, logWarning)
			fmt.Printf("  Entries:  %d\n", c.Len())
			fmt.Printf("  Location: %s\n", c.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop all cached translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settings.CachePath()
			if err != nil {
				return err
			}
			c := cache.Load(path, logWarning)
			n := c.Len()
			if err := c.Clear(); err != nil {
				return err
			}
			logSuccess("Removed %d cached translation(s)", n)
			return nil
		},
	})

	return cmd
}

// ---------------------------------------------------------------------------
// config (show / set-key / set)
// ---------------------------------------------------------------------------

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change stored settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetKeyCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := settings.Load()
			fmt.Printf("  File:      %s\n", settings.FilePath())
			fmt.Printf("  Provider:  %s\n", cfg.Provider)
			if cfg.Model != "" {
				fmt.Printf("  Model:     %s\n", cfg.Model)
			}
			providers := make([]string, 0, len(cfg.APIKeys))
			for p := range cfg.APIKeys {
				providers = append(providers, p)
			}
			sort.Strings(providers)
			for _, p := range providers {
				fmt.Printf("  Key %-9s %s\n", p+":", settings.MaskKey(cfg.APIKeys[p]))
			}
			if len(cfg.Terminology) > 0 {
				fmt.Printf("  Terminology entries: %d\n", len(cfg.Terminology))
			}
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <provider> <key>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, key := args[0], args[1]
			if !translate.ValidateAPIKey(provider, key) {
				return fmt.Errorf("key does not look like a valid %s API key", provider)
			}
			cfg := settings.Load()
			cfg.SetAPIKey(provider, key)
			if err := settings.Save(cfg); err != nil {
				return err
			}
			logSuccess("Stored %s key (%s)", provider, settings.MaskKey(key))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> [model]",
		Short: "Set the default provider and model",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings.Load()
			cfg.Provider = args[0]
			if len(args) == 2 {
				cfg.Model = args[1]
			}
			if err := settings.Save(cfg); err != nil {
				return err
			}
			logSuccess("Default provider: %s", cfg.Provider)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// loadFile wraps phpfile.Load with scan progress for large files.
func loadFile(path string) (*phpfile.File, error) {
	f, err := phpfile.Load(path)
	if err != nil {
		var encErr *phpfile.EncodingError
		if errors.As(err, &encErr) {
			logError("Tried encodings: %s", strings.Join(encodingNames(encErr.Tried), ", "))
		}
		return nil, err
	}
	return f, nil
}

func encodingNames(encs []phpfile.Encoding) []string {
	names := make([]string, len(encs))
	for i, e := range encs {
		names[i] = string(e)
	}
	return names
}
