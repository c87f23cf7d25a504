package hclibgo

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level structured logger used by every runtime
// component for fatal assertions, warnings, and (when Config.Stats is
// set) the startup banner and shutdown statistics line. Embedders may
// replace it before calling Launch.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().
	Timestamp().
	Logger()

// consoleStatsWriter receives the tab-separated statistics line emitted
// by logFooter, kept separate from Logger's structured output so the
// machine-parseable line isn't wrapped in zerolog's console formatting.
// It is unexported, so only code inside this package can redirect it.
var consoleStatsWriter io.Writer = os.Stdout
