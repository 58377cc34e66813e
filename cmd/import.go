/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saltbo/cedictx/internal/corpus"
	"github.com/saltbo/cedictx/internal/infrastructure/config"
	"github.com/saltbo/cedictx/internal/infrastructure/database"
	"github.com/saltbo/cedictx/internal/infrastructure/server"
)

const (
	importInputKey = "dict.import.input"
	importDictKey  = "dict.import.dictionary_id"
	importBatchKey = "dict.import.batch_size"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse a CEDICT/CC-Canto file and load it into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		inputPath := viper.GetString(importInputKey)
		dictionaryID := viper.GetInt64(importDictKey)
		batchSize := viper.GetInt(importBatchKey)

		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}
		if dictionaryID <= 0 {
			return fmt.Errorf("a positive --dictionary-id is required")
		}

		// One correlation id per import run so its log lines can be grepped
		// out of a shared sink.
		log := logger.WithFields(logrus.Fields{
			"run_id":        uuid.NewString(),
			"dictionary_id": dictionaryID,
			"input":         inputPath,
		})

		data, err := os.ReadFile(filepath.Clean(inputPath))
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}

		entries, err := corpus.Parse(string(data), dictionaryID)
		if err != nil {
			return fmt.Errorf("parse %s: %w", inputPath, err)
		}
		log.WithField("entries", len(entries)).Info("parsed corpus file")

		s, cleanup, err := database.NewStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer cleanup()

		if err := s.Import(ctx, dictionaryID, entries, batchSize); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		log.Info("import committed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "path to a CEDICT/CC-Canto source file")
	importCmd.Flags().Int64P("dictionary-id", "d", 0, "dictionary id the file's entries belong to")
	importCmd.Flags().Int("batch-size", 0, "staging insert batch size (default 10000)")

	bindImportConfig()
}

func bindImportConfig() {
	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importDictKey, importCmd.Flags().Lookup("dictionary-id"))
	bindFlagToViper(importBatchKey, importCmd.Flags().Lookup("batch-size"))
}
