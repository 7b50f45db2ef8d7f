package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docreel/demo/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8000"

func newRootCommand() *cobra.Command {
	var serverURL string
	var outDir string

	rootCmd := &cobra.Command{
		Use:           "studio <document>",
		Short:         "Turn a document into a narrated video",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("cannot read document: %w", err)
			}
			return runStudio(serverURL, args[0], outDir)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "url", "u", envOr("DOCREEL_URL", defaultServerURL), "docreel server URL")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for the downloaded video")

	rootCmd.AddCommand(newHealthCommand(&serverURL))
	return rootCmd
}

func newHealthCommand(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:          "health",
		Short:        "Check that the docreel server is reachable",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := tui.NewStudioClient(*serverURL).Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", *serverURL, status)
			return nil
		},
	}
}

func runStudio(serverURL, docPath, outDir string) error {
	program := tea.NewProgram(tui.NewModel(serverURL, docPath, outDir))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
