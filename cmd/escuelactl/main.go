// Command escuelactl runs operator tasks against the configured database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/config"
	"github.com/escuela-dev/escuela/internal/logger"
	"github.com/escuela-dev/escuela/internal/seed"
)

const usage = `usage: escuelactl <command> [flags]

commands:
  create-admin   create the first administrador
  seed           load sample careers, users, enrollments and payments
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logger.New(cfg.LogMode); err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}

	if err := db.ConnectDatabase(cfg.DBDriver, cfg.DSN); err != nil {
		fmt.Printf("connect database: %v\n", err)
		os.Exit(1)
	}

	if err := db.MigrateDatabase(); err != nil {
		fmt.Printf("migrate database: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-admin":
		err = createAdmin(os.Args[2:])
	case "seed":
		err = runSeed(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func createAdmin(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	var admin seed.Admin
	fs.StringVar(&admin.Username, "username", "", "login name (required)")
	fs.StringVar(&admin.Password, "password", "", "initial password (required)")
	fs.StringVar(&admin.FirstName, "first-name", "Admin", "first name")
	fs.StringVar(&admin.LastName, "last-name", "Escuela", "last name")
	fs.StringVar(&admin.Email, "email", "", "email address (required)")
	fs.IntVar(&admin.DNI, "dni", 0, "national id number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := seed.CreateAdmin(db.DB, admin)
	if errors.Is(err, seed.ErrAdminExists) {
		return fmt.Errorf("%w; log in with it and use the API to add more", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("created administrador %q with id %d\n", user.Username, user.ID)
	return nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		return err
	}

	summary, err := seed.Run(db.DB)
	if err != nil {
		return err
	}

	fmt.Printf("created %d careers, %d alumnos, %d profesores, %d enrollments, %d payments\n",
		summary.Careers, summary.Students, summary.Professors, summary.Enrollments, summary.Payments)
	return nil
}
