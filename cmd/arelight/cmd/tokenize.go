// Copyright 2025 The ARElight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic/encoder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/bert"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [text]...",
	Short: "Tokenize texts against a run vocabulary",
	Long: `Tokenize runs the WordPiece tokenizer a model bound to --vocab would
see, printing the id, type, and attention sequences per input. Useful
for checking vocabulary coverage before a run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokenize,
}

func init() {
	flags := tokenizeCmd.Flags()
	flags.String("vocab", "", "vocabulary artifact path")
	flags.Bool("do-lowercase", false, "lowercase texts during tokenization")
	flags.Int("max-sequence-length", 128, "tokenized sequence cap")

	mustBindPFlag("tokenize.vocab", flags.Lookup("vocab"))
	mustBindPFlag("tokenize.do-lowercase", flags.Lookup("do-lowercase"))
	mustBindPFlag("tokenize.max-sequence-length", flags.Lookup("max-sequence-length"))

	rootCmd.AddCommand(tokenizeCmd)
}

func runTokenize(_ *cobra.Command, args []string) error {
	vocabPath := viper.GetString("tokenize.vocab")
	if vocabPath == "" {
		return fmt.Errorf("--vocab is required")
	}
	vocab, err := embeddings.LoadVocab(vocabPath)
	if err != nil {
		return err
	}

	wp, err := bert.NewWordPiece(vocab,
		viper.GetBool("tokenize.do-lowercase"),
		viper.GetInt("tokenize.max-sequence-length"))
	if err != nil {
		return err
	}

	enc := encoder.NewStreamEncoder(os.Stdout)
	for _, text := range args {
		encoded, err := wp.Encode(text, "")
		if err != nil {
			return fmt.Errorf("tokenizing %q: %w", text, err)
		}
		if err := enc.Encode(map[string]any{
			"text":           text,
			"ids":            encoded.IDs,
			"type_ids":       encoded.TypeIDs,
			"attention_mask": encoded.AttentionMask,
		}); err != nil {
			return err
		}
	}
	return nil
}
