package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go-teeth-classifier/internal/config"
	"go-teeth-classifier/internal/container"
	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/internal/service"
	"go-teeth-classifier/pkg/models"

	"github.com/spf13/cobra"
)

// predictLine is one line of predict output.
type predictLine struct {
	File              string               `json:"file"`
	Label             models.ClassLabel    `json:"label,omitempty"`
	ConfidencePercent float64              `json:"confidence_percent,omitempty"`
	Entry             *models.CatalogEntry `json:"entry,omitempty"`
	Error             string               `json:"error,omitempty"`
}

func predictCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "predict FILE...",
		Short: "Classify image files and print one JSON result per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return predict(cmd.Context(), cfg, args, cmd.OutOrStdout())
		},
	}
}

func predict(ctx context.Context, cfg *config.Config, files []string, out io.Writer) error {
	// Results go to stdout, logs stay out of the way.
	logger.SetOutput(os.Stderr)

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	uploads := make([]service.Upload, 0, len(files))
	readErrs := make(map[int]error)
	for i, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			readErrs[i] = err
		}
		uploads = append(uploads, service.Upload{Filename: filepath.Base(f), Data: data})
	}

	results := c.Service().ClassifyBatch(ctx, uploads)

	enc := json.NewEncoder(out)
	failed := 0
	for i, r := range results {
		line := predictLine{File: files[i]}
		err := r.Err
		if readErr, ok := readErrs[i]; ok {
			err = readErr
		}
		if err != nil {
			failed++
			line.Error = err.Error()
		} else {
			line.Label = r.Classification.Result.Label
			line.ConfidencePercent = r.Classification.Result.ConfidencePercent
			entry := r.Classification.Entry
			line.Entry = &entry
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be classified", failed, len(files))
	}
	return nil
}
