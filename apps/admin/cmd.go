package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	"github.com/trezcool/studentcoin/core/account"
	"github.com/trezcool/studentcoin/core/taxid"
	kvstore "github.com/trezcool/studentcoin/storage/kv"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp           = errors.New("help provided")
	errInvalidTaxID   = errors.New("invalid tax ID")
	errAccessDenied   = errors.New("access denied")
	errUnknownTaxKind = errors.New("kind must be one of cpf or cnpj")
)

type commandLine struct {
	out          io.Writer
	conf         *core.Config
	logger       core.Logger
	registry     *access.Registry
	openStore    func(ctx context.Context) (kvstore.Store, error)
	openMigrator func(ctx context.Context) (migrator, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  validate -kind cpf|cnpj VALUE              - check a CPF or CNPJ")
	fmt.Fprintln(cli.out, "  format -kind cpf|cnpj VALUE                - render a (partial) CPF or CNPJ")
	fmt.Fprintln(cli.out, "  role [-device ID] get|set ROLE|logout      - read or change the persisted role")
	fmt.Fprintln(cli.out, "  access [-device ID] -resource NAME         - check whether the role may open a resource")
	fmt.Fprintln(cli.out, "  checkpassword [-name NAME] [-email EMAIL]  - check a password against the policy")
	fmt.Fprintln(cli.out, "  migrate up|up-by-one|up-to V|down|down-to V|redo - migrate the postgres store")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateKind := validateCmd.String("kind", "cpf", "The tax ID kind: cpf or cnpj.")

	formatCmd := flag.NewFlagSet("format", flag.ContinueOnError)
	formatKind := formatCmd.String("kind", "cpf", "The tax ID kind: cpf or cnpj.")

	roleCmd := flag.NewFlagSet("role", flag.ContinueOnError)
	roleDevice := roleCmd.String("device", "", "The device ID of the session. Empty for the default session.")

	accessCmd := flag.NewFlagSet("access", flag.ContinueOnError)
	accessDevice := accessCmd.String("device", "", "The device ID of the session. Empty for the default session.")
	accessResource := accessCmd.String("resource", "", "The resource name, eg. teacher-dashboard.")

	checkPwdCmd := flag.NewFlagSet("checkpassword", flag.ContinueOnError)
	checkPwdName := checkPwdCmd.String("name", "", "The user's name. The password will be prompted next.")
	checkPwdEmail := checkPwdCmd.String("email", "", "The user's email.")

	for _, fs := range []*flag.FlagSet{validateCmd, formatCmd, roleCmd, accessCmd, checkPwdCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "validate":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if validateCmd.NArg() != 1 {
			validateCmd.Usage()
			return errHelp
		}
		return cli.validateTaxID(*validateKind, validateCmd.Arg(0))

	case "format":
		if err := formatCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if formatCmd.NArg() != 1 {
			formatCmd.Usage()
			return errHelp
		}
		return cli.formatTaxID(*formatKind, formatCmd.Arg(0))

	case "role":
		if err := roleCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if roleCmd.NArg() == 0 {
			roleCmd.Usage()
			return errHelp
		}
		return cli.role(*roleDevice, roleCmd.Args())

	case "access":
		if err := accessCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *accessResource == "" {
			accessCmd.Usage()
			return errHelp
		}
		return cli.checkAccess(*accessDevice, *accessResource)

	case "checkpassword":
		if err := checkPwdCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			checkPwdCmd.Usage()
			return errHelp
		}
		if err = account.CheckPassword(string(pwd), *checkPwdName, *checkPwdEmail); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "password ok")
		return nil

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) validateTaxID(kindName, value string) error {
	kind, ok := taxid.ParseKind(kindName)
	if !ok {
		return errUnknownTaxKind
	}
	if !kind.Validate(value) {
		fmt.Fprintf(cli.out, "%s: invalid %s\n", value, kind)
		return errInvalidTaxID
	}
	fmt.Fprintf(cli.out, "%s: valid %s\n", kind.Format(value), kind)
	return nil
}

func (cli *commandLine) formatTaxID(kindName, value string) error {
	kind, ok := taxid.ParseKind(kindName)
	if !ok {
		return errUnknownTaxKind
	}
	fmt.Fprintln(cli.out, kind.Format(value))
	return nil
}

// controller opens the store and returns the access.Controller of device (the default session when empty).
func (cli *commandLine) controller(ctx context.Context, device string) (*access.Controller, kvstore.Store, error) {
	store, err := cli.openStore(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening store")
	}
	if device == "" {
		ctrl := access.NewController(ctx, store, cli.logger,
			access.WithKey(cli.conf.Store.KeyPrefix), access.WithTimeout(cli.conf.Store.Timeout))
		return ctrl, store, nil
	}
	sessions := access.NewSessions(store, cli.logger, cli.conf.Store.KeyPrefix, cli.conf.Store.Timeout, cli.conf.Store.MaxSessions)
	ctrl, err := sessions.Get(ctx, device)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return ctrl, store, nil
}

func (cli *commandLine) role(device string, args []string) error {
	ctx := context.Background()

	var newRole access.Role
	switch args[0] {
	case "get", "logout":
	case "set":
		if len(args) < 2 {
			cli.printUsage()
			return errHelp
		}
		role, err := access.ParseRole(args[1])
		if err != nil {
			return err
		}
		newRole = role
	default:
		cli.printUsage()
		return errHelp
	}

	ctrl, store, err := cli.controller(ctx, device)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	switch args[0] {
	case "set":
		ctrl.SetRole(ctx, newRole)
	case "logout":
		ctrl.Logout(ctx)
	}
	fmt.Fprintln(cli.out, roleName(ctrl.Role()))
	return nil
}

func (cli *commandLine) checkAccess(device, resource string) error {
	res, ok := cli.registry.Lookup(resource)
	if !ok {
		return errors.Errorf("%q: no such resource", resource)
	}

	ctrl, store, err := cli.controller(context.Background(), device)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if !ctrl.CanAccess(res) {
		fmt.Fprintf(cli.out, "%s: denied to %s\n", res.Name(), roleName(ctrl.Role()))
		return errAccessDenied
	}
	fmt.Fprintf(cli.out, "%s: allowed to %s\n", res.Name(), roleName(ctrl.Role()))
	return nil
}

func roleName(role access.Role) string {
	if role.IsNone() {
		return "none"
	}
	return role.String()
}
