package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ZaguanLabs/cloudtranslate"
	"github.com/spf13/cobra"
)

// withTranslator wraps a command body with translator setup and saves the
// cache file after a successful run.
func (a *app) withTranslator(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd); err != nil {
			return err
		}
		if err := fn(cmd, args); err != nil {
			return err
		}
		return a.exportCache()
	}
}

func (a *app) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages supported by the backend",
		Args:  cobra.NoArgs,
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			langs, err := a.translator.Languages(cmd.Context())
			if err != nil {
				return err
			}
			return a.printLanguages(langs)
		}),
	}
}

func (a *app) localizedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "localized <target>",
		Short: "List the supported languages with names in the target language",
		Args:  cobra.ExactArgs(1),
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			langs, err := a.translator.LocalizedLanguages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printLanguages(langs)
		}),
	}
}

func (a *app) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>...",
		Short: "Detect the language of each text",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				d, err := a.translator.DetectLanguage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printDetections([]cloudtranslate.Detection{d})
			}

			ds, err := a.translator.DetectLanguageBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.printDetections(ds)
		}),
	}
}

func (a *app) translateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translate [text]...",
		Short: "Translate each text from the source to the target language",
		Long:  "Translate each text from the source to the target language. Without arguments the text is read from stdin.",
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				args = []string{strings.TrimRight(string(data), "\r\n")}
			}

			if len(args) == 1 {
				tr, err := a.translator.Translate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printTranslations([]cloudtranslate.Translation{tr})
			}

			trs, err := a.translator.TranslateBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.printTranslations(trs)
		}),
	}
}

func (a *app) targetsCommand() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the possible target languages",
		Args:  cobra.NoArgs,
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			if check != "" {
				if _, err := a.translator.IsValidPossibleTarget(check); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s is a valid target\n", check)
				return nil
			}

			targets := a.translator.PossibleTargets()
			if a.jsonOutput {
				return printJSON(a.stdout, targets)
			}
			for _, code := range targets {
				fmt.Fprintln(a.stdout, code)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&check, "check", "", "Check that a language is a possible target")
	return cmd
}

func (a *app) sourcesCommand() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the possible source languages for the target language",
		Args:  cobra.NoArgs,
		RunE: a.withTranslator(func(cmd *cobra.Command, args []string) error {
			target := a.translator.Settings().Target

			if check != "" {
				if _, err := a.translator.IsValidPossibleSourceForTarget(cmd.Context(), check); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s is a valid source for %s\n", check, target)
				return nil
			}

			sources, err := a.translator.PossibleSourceLanguagesForTarget(cmd.Context(), target)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.stdout, sources)
			}

			codes := make([]string, 0, len(sources))
			for code := range sources {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(a.stdout, "%s\t%s\n", code, sources[code])
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&check, "check", "", "Check that a language is a possible source for the target")
	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "%s %s\n", cloudtranslate.Name, cloudtranslate.FullVersion())
			return nil
		},
	}
}

func (a *app) printLanguages(langs []cloudtranslate.Language) error {
	if a.jsonOutput {
		return printJSON(a.stdout, langs)
	}
	for _, lang := range langs {
		fmt.Fprintf(a.stdout, "%s\t%s\n", lang.Code, lang.Name)
	}
	return nil
}

func (a *app) printDetections(ds []cloudtranslate.Detection) error {
	if a.jsonOutput {
		return printJSON(a.stdout, ds)
	}
	for _, d := range ds {
		fmt.Fprintf(a.stdout, "%s\t%.2f\t%s\n", d.Language, d.Confidence, d.Input)
	}
	return nil
}

func (a *app) printTranslations(trs []cloudtranslate.Translation) error {
	if a.jsonOutput {
		return printJSON(a.stdout, trs)
	}
	for _, tr := range trs {
		fmt.Fprintln(a.stdout, tr.Text)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
