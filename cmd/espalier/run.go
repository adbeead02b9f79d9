package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill a form interactively in the terminal",
	Long:  `Starts one interactive session over the schema form (or the built-in demo) and prints the finished value as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		fancy := !plain && term.IsTerminal(int(os.Stdout.Fd()))

		factory, err := loadFactory(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if fancy {
			tui.PrintBanner()
		}

		console := cli.New(factory(), os.Stdin, os.Stdout, fancy)
		value, err := console.Run()
		switch {
		case errors.Is(err, cli.ErrQuit), errors.Is(err, io.EOF):
			fmt.Println("Bye!")
			return
		case err != nil:
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := cli.PrintValue(os.Stdout, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Disable styled output even on a terminal")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
