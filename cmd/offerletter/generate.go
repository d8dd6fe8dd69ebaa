package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	offerletter "github.com/alnah/go-offerletter"
	"github.com/alnah/go-offerletter/internal/assist"
	"github.com/alnah/go-offerletter/internal/config"
	"github.com/alnah/go-offerletter/internal/hints"
)

// runGenerate drafts a letter from a free-text request and writes it as a
// letter file.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	f, words, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	request := strings.TrimSpace(strings.Join(words, " "))
	if request == "" {
		return usageError(assist.ErrEmptyPrompt)
	}

	cfg, _, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	log := newLogger(cfg, env)

	model := f.model
	if model == "" {
		model = cfg.Assist.Model
	}
	timeoutValue := f.timeout
	if timeoutValue == "" {
		timeoutValue = cfg.Assist.Timeout
	}
	timeout, err := config.ParseDuration(timeoutValue)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeout, timeoutValue)
	}

	now := env.Now()
	base := offerletter.NewDocument(now)
	if f.base != "" {
		data, err := os.ReadFile(f.base) // #nosec G304 -- user-provided letter path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadLetter, err)
		}
		p, err := parseLetter(f.base, data)
		if err != nil {
			return err
		}
		base = offerletter.ApplyPatch(base, p)
	}

	keyEnv := cfg.Assist.APIKeyEnv
	client, err := env.NewAssist(ctx, env.Getenv(keyEnv), model,
		assist.WithLogger(log),
		assist.WithTimeout(timeout),
	)
	if err != nil {
		if errors.Is(err, assist.ErrMissingAPIKey) {
			return fmt.Errorf("%w%s", err, hints.ForAssistKey(keyEnv))
		}
		return err
	}
	defer func() { _ = client.Close() }()

	p, err := client.Generate(ctx, request)
	if err != nil {
		return withHint(err)
	}

	// Generated fields go through the same merge as manual edits.
	store := offerletter.NewStore(base)
	unsubscribe := store.Subscribe(func(doc offerletter.Document) {
		log.Debug("letter updated", "candidate", doc.CandidateName, "theme", doc.Theme)
	})
	defer unsubscribe()
	doc := store.Update(p)

	data, err := encodeLetter(doc, f.json)
	if err != nil {
		return err
	}
	if err := writeOutput(f.output, data, env.Stdout); err != nil {
		return withHint(err)
	}
	if f.output != "" && !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	}
	return nil
}
