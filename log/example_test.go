package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/phoenix/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout("none"))

	logger.Trace("not written")
	logger.Debug("loaded script", slog.String("path", "Phoenixfile.phnx"))

	// Output:
	// level=DEBUG msg=loaded script path=Phoenixfile.phnx
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.With(slog.String("script", "build.phnx")).
		Error("evaluation failed", slog.Int("code", 4))

	// Output:
	// {"level":"ERROR","msg":"evaluation failed","script":"build.phnx","code":4}
}
