package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/config"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
)

// app carries what the commands need from the outside world
type app struct {
	loadConfig func() (*config.Config, error)
	httpClient *http.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "projectctl",
		Short:         "Electronics project assistant from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSmokeCmd(a))
	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newModelsCmd(a))
	return root
}

func newSmokeCmd(a *app) *cobra.Command {
	var (
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Send one raw chat completion request and print the status and body",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var apiKey, baseURL string
			switch provider {
			case llm.KindOpenRouter:
				apiKey, baseURL = cfg.LLM.OpenRouterAPIKey, cfg.LLM.OpenRouterBaseURL
				if apiKey == "" {
					return errors.New("OPENROUTER_API_KEY is not set")
				}
			case llm.KindOpenAI:
				apiKey, baseURL = cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL
				if apiKey == "" {
					return errors.New("OPENAI_API_KEY is not set")
				}
			default:
				return fmt.Errorf("unknown provider %q, must be 'openrouter' or 'openai'", provider)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.RequestTimeout)
			defer cancel()

			res, err := llm.Smoke(ctx, a.httpClient, baseURL, apiKey, model)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.StatusCode)
			fmt.Fprintln(out, res.Body)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", llm.KindOpenRouter, "Provider to call: openrouter or openai")
	cmd.Flags().StringVar(&model, "model", "deepseek/deepseek-chat", "Model identifier to send")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		text  string
		link  string
		model string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project report and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (text == "") == (link == "") {
				return errors.New("exactly one of --text or --link is required")
			}
			req := generator.Request{Input: text, Kind: prompt.KindText, Model: model}
			if link != "" {
				req.Input, req.Kind = link, prompt.KindLink
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireProvider(); err != nil {
				return err
			}

			registry, err := llm.NewRegistryFromConfig(cmd.Context(), cfg.LLM, a.httpClient)
			if err != nil {
				return err
			}

			outcome, err := generator.NewGenerator(registry, cfg.LLM.RequestTimeout).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, gap := range outcome.Gaps {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", gap)
			}
			if !outcome.Result.OK() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: model reply was not valid JSON, writing raw output")
			}

			body, err := outcome.Result.Pretty()
			if err != nil {
				return err
			}
			body = append(body, '\n')

			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Manual project description")
	cmd.Flags().StringVar(&link, "link", "", "YouTube link describing the project")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier (default: first configured model)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to this file instead of stdout")
	return cmd
}

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List selectable models and whether their provider is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			registry, err := llm.NewRegistryFromConfig(cmd.Context(), cfg.LLM, a.httpClient)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPROVIDER\tAVAILABLE")
			for _, m := range registry.Models() {
				fmt.Fprintf(w, "%s\t%s\t%t\n", m.ID, m.Provider, m.Available)
			}
			return w.Flush()
		},
	}
}
