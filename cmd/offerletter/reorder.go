package main

import (
	"context"
	"fmt"
	"os"

	offerletter "github.com/alnah/go-offerletter"
)

// runReorder moves one section of a letter and writes the updated letter.
func runReorder(_ context.Context, args []string, env *Environment) error {
	f, positional, err := parseReorderFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: reorder takes exactly one letter file", ErrNoInput)
	}
	if f.from < 0 || f.to < 0 {
		return usageError(fmt.Errorf("--from and --to are required"))
	}
	path := positional[0]
	if err := validateLetterExtension(path); err != nil {
		return err
	}

	cfg, _, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	log := newLogger(cfg, env)

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided letter path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadLetter, err)
	}
	p, err := parseLetter(path, data)
	if err != nil {
		return err
	}

	store := offerletter.NewStore(offerletter.ApplyPatch(offerletter.NewDocument(env.Now()), p))
	order, err := offerletter.Reorder(store.Current(), f.from, f.to)
	if err != nil {
		return withHint(err)
	}
	doc := store.Update(offerletter.Patch{ElementOrder: order})
	log.Debug("sections reordered", "from", f.from, "to", f.to, "order", doc.ElementOrder)

	out, err := encodeLetter(doc, f.json)
	if err != nil {
		return err
	}
	return withHint(writeOutput(f.output, out, env.Stdout))
}
