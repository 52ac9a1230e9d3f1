package cli

import (
	"context"
	"fmt"

	"github.com/yaklabco/syntree/internal/logging"
	"github.com/yaklabco/syntree/pkg/config"
	"github.com/yaklabco/syntree/pkg/fsutil"
	"github.com/yaklabco/syntree/pkg/lang"
	"github.com/yaklabco/syntree/pkg/langdetect"
	"github.com/yaklabco/syntree/pkg/runner"
	"github.com/yaklabco/syntree/pkg/session"
)

// openDocument reads path, detects its language and parses it into a
// document that merges later updates according to cfg.
func openDocument(ctx context.Context, path string, cfg *config.Config) (*session.Document, lang.Language, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, lang.Language{}, &ExitError{Code: ExitIOError, Err: err}
	}

	detector := langdetect.Detector{Overrides: cfg.Languages}
	language, ok := detector.Detect(path, content)
	if !ok {
		return nil, lang.Language{}, &ExitError{
			Code: ExitParseFailures,
			Err:  fmt.Errorf("%s: %w", path, runner.ErrUnknownLanguage),
		}
	}

	builderOpts := runner.Options{Config: cfg, Logger: logging.FromContext(ctx)}.BuilderOptions()
	doc, err := session.Open(language.Definition(), string(content),
		session.WithIncremental(cfg.IncrementalEnabled()),
		session.WithBuilderOptions(builderOpts...),
	)
	if err != nil {
		return nil, lang.Language{}, &ExitError{Code: ExitParseFailures, Err: fmt.Errorf("%s: %w", path, err)}
	}

	logging.FromContext(ctx).Debug("document opened",
		logging.FieldPath, path,
		logging.FieldLanguage, language.Name,
	)
	return doc, language, nil
}
