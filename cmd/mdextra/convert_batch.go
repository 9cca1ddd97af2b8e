package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	mdextra "github.com/alnah/go-mdextra"
	"github.com/alnah/go-mdextra/internal/fileutil"
	"github.com/alnah/go-mdextra/internal/logging"
)

// Pool abstracts formatter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (*mdextra.Formatter, error)
	Release(*mdextra.Formatter)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*mdextra.FormatterPool)(nil)

// conversionParams groups settings shared by every file of a batch.
type conversionParams struct {
	title string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently, one pooled formatter per worker.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			formatter, err := pool.Acquire(ctx)
			if err != nil {
				// Every worker shares the factory, so fail what is left.
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %w", ErrFormatterInit, err),
					}
				}
				return
			}
			defer pool.Release(formatter)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, formatter, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, formatter *mdextra.Formatter, f FileToConvert, params *conversionParams) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		return result
	}

	formatted, err := formatter.Format(ctx, mdextra.Input{
		Markdown: string(content),
		Title:    params.title,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = formatted.Warnings

	if err := fileutil.WriteFileAtomic(f.OutputPath, formatted.HTML); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		return result
	}
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Warnings += len(r.Warnings)
	}
	return summary
}

// printResults logs per-file warnings and failures and prints the created
// files to stdout. It returns the number of failures.
func printResults(logger *log.Logger, results []ConversionResult, common commonFlags, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		logWarnings(logger, r.InputPath, r.Warnings)

		if r.Err != nil {
			logger.Error("conversion failed", logging.FieldPath, r.InputPath, logging.FieldError, r.Err)
			continue
		}

		if common.quiet {
			continue
		}

		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %d warning(s)\n", summary.Succeeded, summary.Failed, summary.Warnings)
	}

	return summary.Failed
}
