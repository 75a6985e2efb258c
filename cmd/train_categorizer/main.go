// Command train_categorizer builds the naive Bayes model used by the
// expense categorizer from a "description,category" CSV file.
package main

import (
	"log/slog"
	"os"

	"github.com/SscSPs/expense_tracker/internal/categorizer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	pflag.String("input", "internal/categorizer/testdata/training.csv", "training CSV with description,category rows")
	pflag.String("output", "categorizer.model", "where to write the trained model")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		logger.Error("Failed to bind flags", slog.String("error", err.Error()))
		os.Exit(1)
	}
	input := viper.GetString("input")
	output := viper.GetString("output")

	f, err := os.Open(input)
	if err != nil {
		logger.Error("Failed to open training data", slog.String("path", input), slog.String("error", err.Error()))
		os.Exit(1)
	}
	samples, err := categorizer.ReadSamplesCSV(f)
	f.Close()
	if err != nil {
		logger.Error("Failed to read training data", slog.String("path", input), slog.String("error", err.Error()))
		os.Exit(1)
	}

	model, err := categorizer.TrainBayesClassifier(samples)
	if err != nil {
		logger.Error("Failed to train model", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := model.Save(output); err != nil {
		logger.Error("Failed to save model", slog.String("path", output), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Model trained",
		slog.Int("samples", len(samples)),
		slog.Int("categories", len(model.Classes())),
		slog.String("output", output))
}
