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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	arelight "github.com/TrellixVulnTeam/ARElight-NFCA"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/brat"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/inference"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/samplesio"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/synonyms"
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Run relation extraction over input texts",
	Long: `Infer extracts entities from the input texts, forms candidate pairs,
encodes them as samples, labels each pair with the configured model,
and writes prediction and visualization outputs.

Texts are read one per line from --input, or from stdin when --input
is omitted. Entities come from a remote NER service (--ner-url) or a
YAML lexicon (--lexicon); predictions come from a remote model
service (--predictor-url).`,
	RunE: runInfer,
}

func init() {
	flags := inferCmd.Flags()
	flags.String("input", "", "input file with one text per line (default stdin)")
	flags.String("output-dir", "output", "directory for samples, predictions, and exports")
	flags.String("ner-url", "", "URL of the entity detection service")
	flags.String("lexicon", "", "YAML lexicon path for dictionary-based detection")
	flags.StringSlice("entity-types", nil, "keep only these entity types (default all)")
	flags.String("predictor-url", "", "URL of the relation model service")
	flags.String("synonyms", "", "synonym groups file, one comma-separated group per line")
	flags.String("brat-config", "", "brat visualization config (default built-in)")
	flags.Int("terms-per-context", 50, "max terms rendered into each sample context")
	flags.Int("bag-size", 1, "rows per bag")
	flags.Int("bags-per-minibatch", 32, "bags per predictor invocation")
	flags.Int("distance-terms-bound", pairs.UnboundedTerms, "max term gap between paired entities (-1 = unbounded)")
	flags.Int("distance-sentences-bound", 0, "required sentence gap between paired entities")
	flags.Bool("do-lowercase", false, "lowercase texts during tokenization")
	flags.Int("max-sequence-length", 128, "tokenized sequence cap")
	flags.String("text-b", "", "second text view template: nli, qa, or empty")
	flags.String("vocab", "", "vocabulary artifact path")
	flags.String("embedding", "", "embedding table artifact path")

	for _, name := range []string{
		"input", "output-dir", "ner-url", "lexicon", "entity-types",
		"predictor-url", "synonyms", "brat-config", "terms-per-context",
		"bag-size", "bags-per-minibatch", "distance-terms-bound",
		"distance-sentences-bound", "do-lowercase", "max-sequence-length",
		"text-b", "vocab", "embedding",
	} {
		mustBindPFlag("infer."+name, flags.Lookup(name))
	}

	rootCmd.AddCommand(inferCmd)
}

func runInfer(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	texts, err := readTexts(viper.GetString("infer.input"))
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no input texts")
	}

	detector, err := buildDetector(logger)
	if err != nil {
		return err
	}
	defer func() { _ = detector.Close() }()

	predictorURL := viper.GetString("infer.predictor-url")
	if predictorURL == "" {
		return fmt.Errorf("--predictor-url is required")
	}
	predictor := inference.NewRemotePredictor(predictorURL, nil, logger)
	defer func() { _ = predictor.Close() }()

	cfg := arelight.DefaultConfig()
	cfg.TermsPerContext = viper.GetInt("infer.terms-per-context")
	cfg.BagSize = viper.GetInt("infer.bag-size")
	cfg.BagsPerMinibatch = viper.GetInt("infer.bags-per-minibatch")
	cfg.DistanceTermsBound = viper.GetInt("infer.distance-terms-bound")
	cfg.DistanceSentencesBound = viper.GetInt("infer.distance-sentences-bound")
	cfg.DoLowercase = viper.GetBool("infer.do-lowercase")
	cfg.MaxSequenceLength = viper.GetInt("infer.max-sequence-length")
	cfg.VocabPath = viper.GetString("infer.vocab")
	cfg.EmbeddingPath = viper.GetString("infer.embedding")
	if cfg.VocabPath == "" || cfg.EmbeddingPath == "" {
		return fmt.Errorf("--vocab and --embedding are required")
	}
	cfg.OutputDir = viper.GetString("infer.output-dir")
	cfg.TargetSplit = folding.Test

	switch strings.ToLower(viper.GetString("infer.text-b")) {
	case "":
	case "nli":
		cfg.TextB = sampling.TemplateNLI
	case "qa":
		cfg.TextB = sampling.TemplateQA
	default:
		return fmt.Errorf("unknown text-b template %q", viper.GetString("infer.text-b"))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	filter := entity.KeepAll()
	if types := viper.GetStringSlice("infer.entity-types"); len(types) > 0 {
		filter = entity.KeepTypes(types...)
	}

	// A nil *Collection must stay a nil interface inside the generator.
	var syn interface {
		RegisterOrGet(value string) (int, error)
	}
	if collection, err := buildSynonyms(); err != nil {
		return err
	} else if collection != nil {
		syn = collection
	}

	encoder, err := sampling.NewEncoder(sampling.EncoderConfig{
		TermsPerContext: cfg.TermsPerContext,
		Formatter:       sampling.SharpPrefixedFormatter(),
		TextB:           cfg.TextB,
	}, logger)
	if err != nil {
		return err
	}

	store, err := samplesio.NewTSVStore(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bratCfg := brat.DefaultConfig()
	if path := viper.GetString("infer.brat-config"); path != "" {
		bratCfg, err = brat.LoadConfig(path)
		if err != nil {
			return err
		}
	}
	exporter, err := brat.NewExporter(bratCfg)
	if err != nil {
		return err
	}

	pipeline, err := arelight.New(cfg, arelight.Deps{
		Extractor: entity.NewExtractor(detector, filter, logger),
		Generator: pairs.NewGenerator(pairs.Config{
			TermsBound:     cfg.DistanceTermsBound,
			SentencesBound: cfg.DistanceSentencesBound,
			Policy:         pairs.ConstantLabel(labels.None),
		}, syn),
		Encoder:   encoder,
		Store:     store,
		Predictor: predictor,
		Scaler:    labels.ThreeScaler(),
		Writer:    inference.NewTSVResultWriter(),
		Exporter:  exporter,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), texts)
	if err != nil {
		return err
	}

	logger.Info("Inference complete",
		zap.String("run_id", result.State.RunID),
		zap.Int("documents", len(texts)),
		zap.Int("predictions", len(result.Predictions)),
		zap.String("samples", result.State.SamplesPath),
		zap.String("predictions_file", result.State.PredictPath))
	return nil
}

// buildDetector picks the configured detection backend and wraps it
// with a short-lived cache so repeated documents skip the backend.
func buildDetector(logger *zap.Logger) (entity.Detector, error) {
	nerURL := viper.GetString("infer.ner-url")
	lexiconPath := viper.GetString("infer.lexicon")

	var detector entity.Detector
	switch {
	case nerURL != "" && lexiconPath != "":
		return nil, fmt.Errorf("--ner-url and --lexicon are mutually exclusive")
	case nerURL != "":
		detector = entity.NewRemoteDetector(nerURL, nil, logger)
	case lexiconPath != "":
		lex, err := entity.LoadLexicon(lexiconPath)
		if err != nil {
			return nil, err
		}
		detector = entity.NewDictionaryDetector(lex)
	default:
		return nil, fmt.Errorf("one of --ner-url or --lexicon is required")
	}

	cache := entity.NewDetectionCache(entity.DetectionCacheTTL)
	return entity.NewCachedDetector(detector, cache, logger), nil
}

func buildSynonyms() (*synonyms.Collection, error) {
	path := viper.GetString("infer.synonyms")
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening synonyms %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	groups, err := synonyms.ReadGroups(f)
	if err != nil {
		return nil, err
	}
	return synonyms.NewCollection(synonyms.LowercaseNormalizer{}, groups, false)
}

func readTexts(path string) ([]string, error) {
	var r *os.File
	if path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var texts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return texts, nil
}
