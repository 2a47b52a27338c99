// Command accountctl provisions API accounts directly in the Postgres store.
//
//	accountctl create -username alice [-password secret] [-token tok]
//
// The password is prompted for when the flag is omitted. A random token is
// generated when -token is empty. The token is printed on success.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/config"
	"github.com/coursegate/coursegate/internal/infra"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "accountctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] != "create" {
		return errors.New("usage: accountctl create -username NAME [-password PW] [-token TOKEN]")
	}

	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	username := fs.String("username", "", "account username (stored uppercase)")
	password := fs.String("password", "", "account password; prompted when empty")
	token := fs.String("token", "", "API token; generated when empty")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	if *password == "" {
		fmt.Fprint(out, "Password: ")
		raw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = string(raw)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	hasher, err := account.NewHasher(cfg.PasswordHash, cfg.PasswordPepper, cfg.PBKDF2Iterations)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := infra.Migrate(ctx, db); err != nil {
			return err
		}
	}

	acc, err := account.NewProvisioner(account.NewPostgresRepository(db), hasher).
		Create(ctx, *username, *password, *token)
	switch {
	case errors.Is(err, account.ErrDuplicate):
		return fmt.Errorf("account %s or its token already exists", account.NormalizeUsername(*username))
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "created %s\n%s\n", acc.Username, acc.APIToken)
	return nil
}
