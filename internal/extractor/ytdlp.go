package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/Hellseher/go-shellquote"
	"github.com/avast/retry-go"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/metrics"
)

// YtDlpConfig holds configuration for the yt-dlp extractor.
type YtDlpConfig struct {
	// BinaryPath is the path to the yt-dlp binary.
	// If empty, "yt-dlp" will be used (assumes it's in PATH).
	BinaryPath string

	// ExtractTimeout bounds a single metadata extraction attempt.
	// Default: 30s
	ExtractTimeout time.Duration

	// DownloadTimeout bounds a full media download.
	// Default: 120s
	DownloadTimeout time.Duration

	// DownloadFormat is the format selector used for full downloads.
	// Default: best[ext=mp4]/best
	DownloadFormat string

	// Strategies are the extraction attempts, in order.
	// Default: DefaultStrategies()
	Strategies []Strategy
}

// DefaultYtDlpConfig returns a YtDlpConfig with production-ready defaults.
func DefaultYtDlpConfig() YtDlpConfig {
	return YtDlpConfig{
		BinaryPath:      "yt-dlp",
		ExtractTimeout:  30 * time.Second,
		DownloadTimeout: 120 * time.Second,
		DownloadFormat:  "best[ext=mp4]/best",
		Strategies:      DefaultStrategies(),
	}
}

// runResult is the captured outcome of a finished process.
type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
}

// runFunc executes a command. A non-zero exit is reported through exitCode,
// not as an error; errors mean the process could not be run at all.
type runFunc func(ctx context.Context, name string, args ...string) (runResult, error)

// YtDlp implements Extractor using the yt-dlp CLI.
type YtDlp struct {
	config YtDlpConfig
	run    runFunc
}

// Compile-time verification that YtDlp implements Extractor.
var _ Extractor = (*YtDlp)(nil)

// NewYtDlp creates a new yt-dlp based extractor.
func NewYtDlp(cfg YtDlpConfig) *YtDlp {
	defaults := DefaultYtDlpConfig()
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaults.BinaryPath
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = defaults.ExtractTimeout
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = defaults.DownloadTimeout
	}
	if cfg.DownloadFormat == "" {
		cfg.DownloadFormat = defaults.DownloadFormat
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = defaults.Strategies
	}

	return &YtDlp{
		config: cfg,
		run:    execRun,
	}
}

// Extract runs the configured strategies in order and returns the metadata
// from the first one that succeeds.
func (y *YtDlp) Extract(ctx context.Context, url string) (*model.VideoInfo, error) {
	var (
		info    *model.VideoInfo
		attempt int
	)

	err := retry.Do(
		func() error {
			strategy := y.config.Strategies[attempt]
			attempt++

			result, err := y.runStrategy(ctx, url, strategy)
			if err != nil {
				return err
			}
			info = result
			return nil
		},
		retry.Attempts(uint(len(y.config.Strategies))),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("extraction strategy failed",
				slog.String("strategy", y.config.Strategies[n].Name),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err != nil {
		var extractionErr *model.ExtractionError
		if errors.As(err, &extractionErr) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &model.ExtractionError{Message: err.Error()}
	}

	return info, nil
}

// runStrategy performs one extraction attempt bounded by ExtractTimeout.
func (y *YtDlp) runStrategy(ctx context.Context, url string, strategy Strategy) (*model.VideoInfo, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, y.config.ExtractTimeout)
	defer cancel()

	args := y.buildExtractArgs(url, strategy)
	y.logCommand("extract", strategy.Name, args)

	res, err := y.run(attemptCtx, y.config.BinaryPath, args...)

	switch {
	case ctx.Err() != nil:
		return nil, retry.Unrecoverable(fmt.Errorf("extraction cancelled: %w", ctx.Err()))
	case errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
		metrics.ExtractionAttemptsTotal.WithLabelValues(strategy.Name, metrics.ResultTimeout).Inc()
		return nil, &model.ExtractionError{Message: msgTimedOut}
	case err != nil:
		metrics.ExtractionAttemptsTotal.WithLabelValues(strategy.Name, metrics.ResultFailure).Inc()
		return nil, &model.ExtractionError{Message: err.Error()}
	case res.exitCode != 0:
		metrics.ExtractionAttemptsTotal.WithLabelValues(strategy.Name, metrics.ResultFailure).Inc()
		return nil, &model.ExtractionError{Message: failureMessage(string(res.stderr))}
	}

	info, err := model.ParseVideoInfo(res.stdout)
	if err != nil {
		metrics.ExtractionAttemptsTotal.WithLabelValues(strategy.Name, metrics.ResultFailure).Inc()
		return nil, &model.ExtractionError{Message: msgParseFailure}
	}

	metrics.ExtractionAttemptsTotal.WithLabelValues(strategy.Name, metrics.ResultSuccess).Inc()
	return info, nil
}

// Download fetches the media for url into outputPath, bounded by DownloadTimeout.
func (y *YtDlp) Download(ctx context.Context, url, outputPath string) error {
	dlCtx, cancel := context.WithTimeout(ctx, y.config.DownloadTimeout)
	defer cancel()

	args := y.buildDownloadArgs(url, outputPath)
	y.logCommand("download", "", args)

	res, err := y.run(dlCtx, y.config.BinaryPath, args...)

	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("download cancelled: %w", ctx.Err())
	case errors.Is(dlCtx.Err(), context.DeadlineExceeded):
		return model.ErrDownloadTimeout
	case err != nil:
		return fmt.Errorf("yt-dlp execution failed: %w", err)
	case res.exitCode != 0:
		return &model.DownloadError{Stderr: string(res.stderr)}
	}

	return nil
}

// buildExtractArgs constructs the metadata extraction arguments for a strategy.
func (y *YtDlp) buildExtractArgs(url string, strategy Strategy) []string {
	args := make([]string, 0, len(strategy.Args)+3)
	args = append(args, strategy.Args...)
	return append(args,
		"--dump-json",
		"--no-warnings",
		url,
	)
}

// buildDownloadArgs constructs the full download arguments.
func (y *YtDlp) buildDownloadArgs(url, outputPath string) []string {
	return []string{
		"--format", y.config.DownloadFormat,
		"--output", outputPath,
		"--no-warnings",
		url,
	}
}

func (y *YtDlp) logCommand(op, strategy string, args []string) {
	slog.Debug("running yt-dlp",
		slog.String("op", op),
		slog.String("strategy", strategy),
		slog.String("command", shellquote.Join(append([]string{y.config.BinaryPath}, args...)...)),
	)
}

// processWaitDelay bounds how long a cancelled run waits for its output pipes
// to close after the process has been killed.
const processWaitDelay = 2 * time.Second

// execRun runs name as a subprocess and captures its output.
// Cancelling ctx kills the process and any children it started.
func execRun(ctx context.Context, name string, args ...string) (runResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	killProcessGroup(cmd)
	cmd.WaitDelay = processWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}

	return res, nil
}
