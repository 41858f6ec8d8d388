/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/opustran/internal"
	"github.com/valpere/opustran/internal/facade"
	"github.com/valpere/opustran/internal/language"
	"github.com/valpere/opustran/internal/web"
)

var (
	inputFile  string
	outputFile string
	sourceName string
	targetName string
	download   bool
	verbose    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text with an Opus-MT model",
	Long: `Translate text from one language to another. The text is taken from the
arguments, from --input, or from standard input when --input is "-".

Languages are given by name (see "opustran languages"). Use
--from "Detect language" to detect the source language.

Examples:
  opustran translate --from English --to French "Hello world"
  opustran translate -s German -t English -i letter.txt -o letter.en.txt
  echo "Bonjour" | opustran translate -s French -t English -i - --download`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile != "-" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		f, cleanup, err := buildFacade(sourceName == language.AutoDetect)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := f.Do(context.Background(), internal.TranslationRequest{
			SourceName: sourceName,
			TargetName: targetName,
			Text:       text,
		})
		if err != nil {
			msg := facade.Describe(err)
			if msg.Severity == facade.SeverityWarning {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", msg.Text)
				return nil
			}
			return fmt.Errorf("%s", msg.Text)
		}

		if verbose {
			if res.Detected {
				fmt.Fprintf(cmd.ErrOrStderr(), "Detected source language: %s\n", res.SourceCode)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Model: %s (cached: %v, %s)\n", res.ModelID, res.CacheHit, res.Latency.Round(1e6))
		}

		if res.OutputWarning != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: translation may not be in the target language (%s)\n", res.OutputWarning)
		}

		if outputFile == "" && !download {
			fmt.Fprintln(cmd.OutOrStdout(), res.TranslatedText)
			return nil
		}

		if outputFile != "" {
			if err := writeOutput(outputFile, res.TranslatedText); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully translated %s to %s: %s\n", res.SourceCode, res.TargetCode, outputFile)
		}
		if download {
			if err := writeOutput(web.DownloadFilename, res.TranslatedText); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved translation to %s\n", web.DownloadFilename)
		}
		return nil
	},
}

func readInput(stdin io.Reader, args []string) (string, error) {
	switch {
	case inputFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(data), nil
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	default:
		return strings.Join(args, " "), nil
	}
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", `Input file to translate ("-" for standard input)`)
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for the translation (default: print to stdout)")
	translateCmd.Flags().StringVarP(&sourceName, "from", "s", "English", "Source language name")
	translateCmd.Flags().StringVarP(&targetName, "to", "t", "", "Target language name (required)")
	translateCmd.Flags().BoolVar(&download, "download", false, "Also save the translation as translation.txt")
	translateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report the model used and whether it was cached")

	translateCmd.MarkFlagRequired("to")
}
