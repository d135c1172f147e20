// Package main provides the skillrun CLI entrypoint:
//
//	skillrun validate <skill.md>
//	skillrun run <skill.md> --input '{"k":"v"}'
//	skillrun resume <skill.md> <executionId> --input '{"k":"v"}' | --interactive
//	skillrun test <skill.md...>
//	skillrun schema <skill.md>
//	skillrun show <skill.md>
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/executor"
	"github.com/skillkit/skillrun/pkg/orchestrator"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/replay"
	"github.com/skillkit/skillrun/pkg/runtest"
	"github.com/skillkit/skillrun/pkg/schemagen"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/trace"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skillrun",
	Short: "Agent Skill Runtime",
}

var stateDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", ".skillrun-state", "directory holding suspended execution snapshots")
	rootCmd.AddCommand(validateCmd, runCmd, resumeCmd, testCmd, schemaCmd, showCmd, versionCmd)
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [skill.md]",
	Short: "Validate a skill document (3-phase pipeline)",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	s, errs := skill.ValidateDocument(doc)
	var hardErrors int
	for _, e := range errs {
		marker := "✗"
		if e.Severity == "warning" {
			marker = "⚠"
		} else {
			hardErrors++
		}
		fmt.Fprintf(os.Stderr, "  %s [%s] %s", marker, e.Phase, e.Message)
		if e.Path != "" {
			fmt.Fprintf(os.Stderr, " (at %s)", e.Path)
		}
		fmt.Fprintln(os.Stderr)
	}
	if hardErrors > 0 {
		return fmt.Errorf("validation failed with %d error(s)", hardErrors)
	}
	fmt.Printf("✓ %s is valid (%d steps)\n", s.ID, len(s.Steps))
	return nil
}

// --- run / resume ---

var (
	runInputJSON    string
	runScenarioPath string
)

var runCmd = &cobra.Command{
	Use:   "run [skill.md]",
	Short: "Execute a skill document from fresh input",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

var resumeCmd = &cobra.Command{
	Use:   "resume [skill.md] [executionId]",
	Short: "Resume a suspended execution with user-supplied input",
	Args:  cobra.ExactArgs(2),
	RunE:  runResume,
}

var resumeInteractive bool

func init() {
	runCmd.Flags().StringVar(&runInputJSON, "input", "{}", "JSON input object")
	runCmd.Flags().StringVar(&runScenarioPath, "scenario", "", "replay scenario directory providing canned tool responses")
	resumeCmd.Flags().StringVar(&runInputJSON, "input", "{}", "JSON resume input object")
	resumeCmd.Flags().BoolVar(&resumeInteractive, "interactive", false, "prompt for the await input in a terminal form instead of --input")
}

func loadSkill(path string) (*skill.Skill, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, errs := skill.ValidateDocument(doc)
	if skill.HasErrors(errs) {
		return nil, skill.AsSkillParseError(errs)
	}
	return s, nil
}

func newStore() execctx.Store {
	return execctx.NewFileStore(stateDir)
}

func buildExecutor(scenarioPath string) (*orchestrator.Executor, error) {
	tools := registry.NewToolRegistry()
	if scenarioPath != "" {
		scenario, err := replay.LoadScenarioDir(scenarioPath)
		if err != nil {
			return nil, err
		}
		replay.RegisterAll(tools, scenario)
	}
	adapters := registry.NewLLMAdapterRegistry()
	dispatch := executor.New(&executor.ToolExecutor{Tools: tools}, &executor.PromptExecutor{Adapters: adapters})
	tw := trace.NewWriter(os.Stderr)
	return &orchestrator.Executor{Dispatch: dispatch, Store: newStore(), Trace: tw}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadSkill(args[0])
	if err != nil {
		return err
	}
	var input map[string]any
	if err := json.Unmarshal([]byte(runInputJSON), &input); err != nil {
		return fmt.Errorf("invalid --input JSON: %w", err)
	}
	exec, err := buildExecutor(runScenarioPath)
	if err != nil {
		return err
	}
	printResult(exec.Execute(s, input))
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	s, err := loadSkill(args[0])
	if err != nil {
		return err
	}

	var input map[string]any
	if resumeInteractive {
		store := newStore()
		snap, ok := store.FindByID(args[1])
		if !ok {
			return fmt.Errorf("no suspended execution %q", args[1])
		}
		input, err = promptAwaitInput(snap.AwaitRequest)
		if err != nil {
			return err
		}
	} else if err := json.Unmarshal([]byte(runInputJSON), &input); err != nil {
		return fmt.Errorf("invalid --input JSON: %w", err)
	}

	exec, err := buildExecutor("")
	if err != nil {
		return err
	}
	printResult(exec.Resume(s, args[1], input))
	return nil
}

func printResult(r *orchestrator.SkillResult) {
	switch r.Status {
	case orchestrator.StatusCompleted:
		fmt.Printf("✓ COMPLETED (%s)\n", r.ExecutionID)
		out, _ := json.MarshalIndent(r.Output, "", "  ")
		fmt.Println(string(out))
	case orchestrator.StatusAwaiting:
		fmt.Printf("… AWAITING (%s)\n", r.ExecutionID)
		fmt.Printf("  %s\n", r.Await.Message)
	case orchestrator.StatusFailed:
		fmt.Printf("✗ FAILED (%s)\n  %s\n", r.ExecutionID, r.Error)
	}
}

// --- test ---

var (
	testJSON     bool
	testFailFast bool
	testTimeout  string
)

var testCmd = &cobra.Command{
	Use:   "test [skill.md...]",
	Short: "Run scenario replay tests with assertions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().BoolVar(&testJSON, "json", false, "output results as JSON")
	testCmd.Flags().BoolVar(&testFailFast, "fail-fast", false, "stop after first failing scenario")
	testCmd.Flags().StringVar(&testTimeout, "timeout", "30s", "per-scenario timeout")
}

func runTest(cmd *cobra.Command, args []string) error {
	timeout, err := time.ParseDuration(testTimeout)
	if err != nil {
		return fmt.Errorf("invalid --timeout: %w", err)
	}
	runner := &runtest.Runner{Timeout: timeout, FailFast: testFailFast}

	allPassed := true
	for _, path := range args {
		output, err := runner.RunAll(path)
		if err != nil {
			return err
		}
		if testJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(output)
		} else {
			printTestOutput(output)
		}
		if output.Summary.Failed > 0 || output.Summary.Errors > 0 {
			allPassed = false
		}
	}
	if !allPassed {
		return fmt.Errorf("tests failed")
	}
	return nil
}

func printTestOutput(output *runtest.TestOutput) {
	fmt.Printf("\n  %s\n", output.SkillID)
	for _, s := range output.Scenarios {
		icon := "✓"
		switch s.Status {
		case "failed":
			icon = "✗"
		case "error":
			icon = "!"
		case "skipped":
			icon = "○"
		}
		fmt.Printf("    %s %s (%dms)\n", icon, s.ScenarioName, s.DurationMs)
		if s.Error != "" {
			fmt.Printf("      error: %s\n", s.Error)
		}
		for _, a := range s.Assertions {
			if !a.Passed {
				fmt.Printf("      ✗ %s: %s\n", a.Type, a.Message)
			}
		}
	}
	fmt.Printf("\n  %d passed, %d failed, %d skipped, %d errors (total: %d)\n",
		output.Summary.Passed, output.Summary.Failed, output.Summary.Skipped, output.Summary.Errors, output.Summary.Total)
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema [skill.md]",
	Short: "Export a skill's input/output JSON Schema to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	s, err := loadSkill(args[0])
	if err != nil {
		return err
	}
	in, err := schemagen.GenerateInputSchema(s.ID, s.InputSchema)
	if err != nil {
		return err
	}
	out, err := schemagen.GenerateOutputSchema(s.ID, s.OutputContract)
	if err != nil {
		return err
	}
	fmt.Println("// input")
	fmt.Println(string(in))
	fmt.Println("// output")
	fmt.Println(string(out))
	return nil
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show [skill.md]",
	Short: "Render a skill's metadata and step list as styled Markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := loadSkill(args[0])
	if err != nil {
		return err
	}
	fmt.Println(renderMarkdown(describeSkill(s)))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skillrun %s (%s)\n", version, commit)
	},
}
