package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/assist"
	"github.com/alnah/go-offerletter/internal/config"
	"github.com/alnah/go-offerletter/internal/dateutil"
	"github.com/alnah/go-offerletter/internal/storage"
)

// Exit codes for the offerletter CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, letter, or validation
	ExitIO      = 3 // File not found, permission denied, storage failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// usageError wraps a flag parsing error. A help request is not an error.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, offerletter.ErrBrowserConnect) ||
		errors.Is(err, offerletter.ErrPageCreate) ||
		errors.Is(err, offerletter.ErrPageLoad) ||
		errors.Is(err, offerletter.ErrPDFGeneration) ||
		errors.Is(err, offerletter.ErrScreenshot) ||
		errors.Is(err, offerletter.ErrRasterizerUnavailable) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadLetter) ||
		errors.Is(err, ErrReadImage) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoLetters) ||
		errors.Is(err, storage.ErrStore) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, ErrParseLetter) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, offerletter.ErrInvalidPageSize) ||
		errors.Is(err, offerletter.ErrInvalidOrientation) ||
		errors.Is(err, offerletter.ErrInvalidMargin) ||
		errors.Is(err, offerletter.ErrInvalidPDFMode) ||
		errors.Is(err, offerletter.ErrInvalidRasterSettings) ||
		errors.Is(err, offerletter.ErrUnknownTheme) ||
		errors.Is(err, offerletter.ErrLayoutFixed) ||
		errors.Is(err, offerletter.ErrInvalidIndex) ||
		errors.Is(err, offerletter.ErrStyleNotFound) ||
		errors.Is(err, offerletter.ErrThemeNotFound) ||
		errors.Is(err, offerletter.ErrTemplateNotFound) ||
		errors.Is(err, offerletter.ErrInvalidAssetPath) ||
		errors.Is(err, dateutil.ErrInvalidDate) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, storage.ErrInvalidSink) ||
		errors.Is(err, assist.ErrMissingAPIKey) ||
		errors.Is(err, assist.ErrEmptyPrompt) {
		return ExitUsage
	}

	return ExitGeneral
}
