//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the satcat binary into the bin/ directory.
func Build() error {
	fmt.Println("Building...")
	return sh.Run("go", "build", "-o", "./bin/satcat", "./cmd/satcat")
}

// Install copies the satcat binary to /usr/local/bin.
func Install() error {
	mg.Deps(Build)
	fmt.Println("Installing...")
	return sh.Run("cp", "bin/satcat", "/usr/local/bin/satcat")
}

// Test runs all tests in the project with verbose output.
func Test() error {
	fmt.Println("Running Tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// TestPostgres runs the loader tests against SATCAT_TEST_POSTGRES_DSN.
func TestPostgres() error {
	if os.Getenv("SATCAT_TEST_POSTGRES_DSN") == "" {
		return fmt.Errorf("SATCAT_TEST_POSTGRES_DSN is not set")
	}
	fmt.Println("Running PostgreSQL Tests...")
	return sh.Run("go", "test", "-v", "-run", "^TestLoadPostgres$", "./loader")
}

// Catalogs downloads the SAT archive and builds catalogs.db.
func Catalogs() error {
	mg.Deps(Build)
	fmt.Println("Building catalog database...")
	return sh.Run("./bin/satcat", "build-database", "-n", "catalogs.db", "--overwrite")
}

// Exports writes every supported export of catalogs.db into exports/.
func Exports() error {
	mg.Deps(Build)
	fmt.Println("Exporting catalogs...")
	models := []string{"FORM_OF_PAYMENT", "UNIT_OF_MEASURE", "TAX_SYSTEM", "PROD_SERV_KEY", "CFDI_USE", "RELATIONSHIP_TYPE"}
	systems := map[string]string{"dolibarr": ".sql", "odoo": ".csv", "erpnext": ".json"}
	for system, ext := range systems {
		for _, model := range models {
			out := filepath.Join("exports", system, model+ext)
			if err := sh.Run("./bin/satcat", "export", "catalogs.db", system, "-m", model, "-o", out); err != nil {
				fmt.Printf("skipping %s/%s: %v\n", system, model, err)
			}
		}
	}
	return nil
}

// Clean removes the bin directory and generated exports.
func Clean() error {
	fmt.Println("Cleaning...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	if err := os.RemoveAll("exports"); err != nil {
		return err
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println("Running go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Check runs formatting and linting checks (fmt, vet).
func Check() error {
	mg.Deps(Fmt, Vet)
	return nil
}

// Fmt runs go fmt ./...
func Fmt() error {
	fmt.Println("Running go fmt...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet ./...
func Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}
