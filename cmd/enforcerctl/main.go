// Command enforcerctl normalizes an OpenAPI document against the enforcer
// and prints any resulting errors and warnings.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/oasenforce/enforcer"
)

var (
	app = kingpin.New("enforcerctl", "Normalize and validate OpenAPI documents against a weighted enforcer tree.")

	normalizeCmd  = app.Command("normalize", "Normalize a document and report exceptions/warnings.")
	normalizeFile = normalizeCmd.Arg("file", "Path to an OpenAPI document (JSON or YAML).").Required().String()
	normalizeYAML = normalizeCmd.Flag("yaml", "Parse the input as YAML instead of JSON.").Bool()
	majorVersion  = normalizeCmd.Flag("major", "OpenAPI major version.").Default("3").Int()
	minorVersion  = normalizeCmd.Flag("minor", "OpenAPI minor version.").Default("0").Int()
	debugPanics   = normalizeCmd.Flag("debug-panics", "Rethrow panics recovered during normalization instead of swallowing them.").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	data, err := os.ReadFile(*normalizeFile)
	if err != nil {
		log.Fatal("failed to read file", zap.Error(err))
	}

	var definition interface{}
	if *normalizeYAML {
		definition, err = enforcer.ParseYAML(data)
	} else {
		definition, err = enforcer.ParseJSON(data)
	}
	if err != nil {
		log.Fatal("failed to parse document", zap.Error(err))
	}

	root := enforcer.NewRootEnforcer(*majorVersion, *minorVersion, 0).WithLogger(log)
	root.DebugPanics = *debugPanics

	_, exc, warn := root.Normalize(definition, "schema")

	for path, messages := range exc.Report() {
		for _, msg := range messages {
			fmt.Printf("ERROR %s: %s\n", path, msg)
		}
	}
	for path, messages := range warn.Report() {
		for _, msg := range messages {
			fmt.Printf("WARN  %s: %s\n", path, msg)
		}
	}

	if exc.HasException() {
		os.Exit(1)
	}
}
