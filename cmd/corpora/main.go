// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/ai/openai"
	"github.com/poiesic/corpora/ingest"
	"github.com/poiesic/corpora/review"
	"github.com/poiesic/corpora/source/s3"
)

func main() {
	app := &cli.App{
		Name:  "corpora",
		Usage: "Document ingestion and retrieval over a vector index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Ingest all files under a source folder into the index",
				Action: syncCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Source folder (object key prefix) to sync",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent chunk embeddings per file",
						Value: 1,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall deadline for the sync pass",
						Value: 30 * time.Minute,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question grounded on the indexed corpus",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     storeFlags(),
			},
			{
				Name:      "preview",
				Usage:     "Print the stored chunks of one document in order",
				ArgsUsage: "<file-id>",
				Action:    previewCommand,
				Flags:     storeFlags(),
			},
			{
				Name:      "check",
				Usage:     "Review a local text file for content problems",
				ArgsUsage: "<path>",
				Action:    checkCommand,
				Flags:     aiFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags are the flags shared by every command that touches the index
// and the S3-compatible source store.
func storeFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB index directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "s3-endpoint",
			Usage: "S3-compatible endpoint URL (empty for AWS)",
		},
		&cli.StringFlag{
			Name:  "s3-region",
			Usage: "S3 region",
			Value: "us-east-1",
		},
		&cli.StringFlag{
			Name:     "s3-bucket",
			Usage:    "S3 bucket holding the source documents",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "s3-access-key",
			Usage:   "S3 access key ID",
			EnvVars: []string{"AWS_ACCESS_KEY_ID"},
		},
		&cli.StringFlag{
			Name:    "s3-secret-key",
			Usage:   "S3 secret access key",
			EnvVars: []string{"AWS_SECRET_ACCESS_KEY"},
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Use path-style addressing (MinIO and most self-hosted stores)",
		},
	}
	return append(flags, aiFlags()...)
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generation model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI services",
			Value:   "none",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithToken(c.String("ai-token")),
	)
}

func openCorpus(ctx context.Context, c *cli.Context) (*corpora.Corpus, error) {
	store, err := s3.New(ctx, s3.Config{
		Endpoint:        c.String("s3-endpoint"),
		Region:          c.String("s3-region"),
		AccessKeyID:     c.String("s3-access-key"),
		SecretAccessKey: c.String("s3-secret-key"),
		Bucket:          c.String("s3-bucket"),
		UsePathStyle:    c.Bool("s3-path-style"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source store: %w", err)
	}

	corpus, err := corpora.NewCorpus(c.String("db"), store,
		corpora.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	return corpus, nil
}

func syncCommand(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	corpus, err := openCorpus(ctx, c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	report, err := corpus.Sync(ctx, c.String("folder"),
		ingest.WithPoolSize(c.Int("pool-size")))

	// An interrupted pass still carries the outcomes of completed files.
	if report != nil {
		for _, outcome := range report.Files {
			switch {
			case outcome.Failed():
				fmt.Printf("FAIL  %-40s %s\n", outcome.File.Name, outcome.Err)
			case outcome.Note != "":
				fmt.Printf("SKIP  %-40s %s\n", outcome.File.Name, outcome.Note)
			default:
				fmt.Printf("OK    %-40s %d/%d chunks\n",
					outcome.File.Name, outcome.Chunks, outcome.TotalChunks)
			}
		}
		fmt.Printf("\n%d files, %d failed, %d chunks indexed\n",
			len(report.Files), report.FailedFiles(), report.TotalChunks)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	ctx := context.Background()
	corpus, err := openCorpus(ctx, c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	answer, err := corpus.Ask(ctx, question, nil)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources (confidence %.2f):\n", answer.Confidence)
		for _, src := range answer.Sources {
			title := src.Title
			if title == "" {
				title = src.ID
			}
			fmt.Printf("  %.2f  %s\n", src.Score, title)
		}
	} else if !answer.ContextUsed {
		fmt.Println("\n(no indexed context was available)")
	}
	return nil
}

func previewCommand(c *cli.Context) error {
	fileID := c.Args().First()
	if fileID == "" {
		return fmt.Errorf("file id is required")
	}

	ctx := context.Background()
	corpus, err := openCorpus(ctx, c)
	if err != nil {
		return err
	}
	defer corpus.Close()

	chunks, err := corpus.Preview(ctx, fileID)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	if len(chunks) == 0 {
		fmt.Println("no chunks indexed for this document")
		return nil
	}

	for _, chunk := range chunks {
		fmt.Printf("--- chunk %d ---\n%s\n\n", chunk.Seq, chunk.Text)
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	analyzer, err := openai.NewAnalyzer(aiConfigFromFlags(c))
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	reviewer, err := review.NewReviewer(analyzer)
	if err != nil {
		return err
	}

	report, err := reviewer.Review(context.Background(), string(data))
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	if report.Degraded {
		fmt.Println("(model analysis unavailable, heuristic findings only)")
	}
	for _, issue := range report.Issues {
		fmt.Printf("%-6s %-12s %s", issue.Severity, issue.Type, issue.Description)
		if issue.Location != "" {
			fmt.Printf(" (%s)", issue.Location)
		}
		fmt.Println()
		if issue.Current != "" {
			fmt.Printf("       found: %q\n", issue.Current)
		}
		if issue.Suggested != "" {
			fmt.Printf("       suggest: %q\n", issue.Suggested)
		}
	}
	fmt.Printf("\n%d issues, overall severity: %s\n", len(report.Issues), report.Severity)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
