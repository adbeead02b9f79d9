package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/schema"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier builds structured values through guided dialogues",
	Long:  `Espalier turns a form schema into an interactive dialogue and walks a user (or an agent) through it until a complete, typed value comes out.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("schema", "", "Path to the form schema (YAML)")
}

// loadFactory resolves the --schema flag into a tree factory. Without a
// schema a small built-in demo form is used, so the binary works out of
// the box.
func loadFactory(cmd *cobra.Command) (build.Factory, error) {
	path, _ := cmd.Flags().GetString("schema")
	if path == "" {
		return demoForm, nil
	}
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return func() build.Value {
		tree, err := s.Compile()
		if err != nil {
			// Validated at load time; a failure here is a programming error.
			panic(err)
		}
		return tree
	}, nil
}

func demoForm() build.Value {
	return build.NewRecord("profile", "",
		build.Field{Name: "name", Value: build.NewString(build.CellConfig[string]{Prompt: "What is your name?"})},
		build.Field{Name: "age", Value: build.NewUint[uint8](build.CellConfig[uint8]{Prompt: "How old are you?"})},
		build.Field{Name: "languages", Value: build.NewSequence(func() build.Value {
			return build.NewString(build.CellConfig[string]{Prompt: "Name a language you speak"})
		}, build.Config{})},
	)
}
