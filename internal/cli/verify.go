package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/tally-ledger/backend/pkg/config"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/ledger"
)

// ErrDrift is returned by the verify command when rollups differ from their transactions.
var ErrDrift = errors.New("the rollups are not consistent with the transactions")

type VerifyCmd struct {
	User string `help:"Only verify the rollups of this user." short:"u"`
	DB   string `help:"Path of the database. Defaults to DB_PATH." name:"db" type:"path"`
}

// Run verifies the rollups. It never modifies the database.
func (cmd *VerifyCmd) Run(ctx *kong.Context, cfg *config.Config) error {
	path := cmd.DB
	if path == "" {
		path = cfg.DBPath
	}

	db, err := database.Connect(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close(db)
	}()

	printInfof(ctx.Stdout, "Verifying %s", path)
	return verify(context.Background(), ledger.New(db), cmd.User, ctx.Stdout)
}

// verify checks the rollups of one or all users and writes a report to w.
func verify(ctx context.Context, l *ledger.Ledger, user string, w io.Writer) error {
	users := []string{user}
	if user == "" {
		var err error
		users, err = l.Users(ctx)
		if err != nil {
			return err
		}
	}

	var drifted int
	for _, u := range users {
		drifts, err := l.Verify(ctx, u)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", u, err)
		}

		if len(drifts) == 0 {
			printSuccess(w, fmt.Sprintf("%s: consistent", userStyle.Render(u)))
			continue
		}

		drifted++
		for _, d := range drifts {
			printError(w, d.String())
		}
	}

	if drifted > 0 {
		return fmt.Errorf("%w for %d of %d users", ErrDrift, drifted, len(users))
	}

	printSuccess(w, fmt.Sprintf("%d users verified", len(users)))
	return nil
}
