package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/hr-assist/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a single analysis and print the result as JSON",
}

var analyzeResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Score a resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resume, err := readInput(cmd, "resume")
		if err != nil {
			return err
		}
		job, err := readOptionalInput(cmd, "job")
		if err != nil {
			return err
		}
		return runAnalysis(cmd, analysis.ResumeFitRequest{ResumeText: resume, JobText: job})
	},
}

var analyzeCultureCmd = &cobra.Command{
	Use:   "culture",
	Short: "Score a candidate profile against a culture statement",
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, err := readInput(cmd, "candidate")
		if err != nil {
			return err
		}
		var profile analysis.CandidateProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return fmt.Errorf("parse candidate profile: %w", err)
		}
		statement, err := readInput(cmd, "culture")
		if err != nil {
			return err
		}
		return runAnalysis(cmd, analysis.CultureFitRequest{Profile: profile, CultureStatement: statement})
	},
}

var analyzeSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank candidates for a free-text query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		query, _ := cmd.Flags().GetString("query")
		raw, err := readInput(cmd, "candidates")
		if err != nil {
			return err
		}
		var candidates []analysis.Candidate
		if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
			return fmt.Errorf("parse candidates: %w", err)
		}
		return runAnalysis(cmd, analysis.TalentSearchRequest{Query: query, Candidates: candidates})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeResumeCmd, analyzeCultureCmd, analyzeSearchCmd)

	analyzeResumeCmd.Flags().String("resume", "", "resume text file, - for stdin")
	analyzeResumeCmd.Flags().String("job", "", "job description text file")
	analyzeResumeCmd.MarkFlagRequired("resume")

	analyzeCultureCmd.Flags().String("candidate", "", "candidate profile JSON file, - for stdin")
	analyzeCultureCmd.Flags().String("culture", "", "culture statement text file")
	analyzeCultureCmd.MarkFlagRequired("candidate")
	analyzeCultureCmd.MarkFlagRequired("culture")

	analyzeSearchCmd.Flags().StringP("query", "q", "", "search query")
	analyzeSearchCmd.Flags().String("candidates", "", "candidates JSON array file, - for stdin")
	analyzeSearchCmd.MarkFlagRequired("query")
	analyzeSearchCmd.MarkFlagRequired("candidates")
}

func runAnalysis(cmd *cobra.Command, req analysis.Request) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// stdout carries the result.
	logger, err := newLogger("stderr")
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	svc, err := newScreening(ctx, config, nil, logger)
	if err != nil {
		return err
	}

	result, err := svc.Analyze(ctx, req)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), result)
}

func writeResult(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readInput(cmd *cobra.Command, flag string) (string, error) {
	text, err := readOptionalInput(cmd, flag)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("--%s is empty", flag)
	}
	return text, nil
}

func readOptionalInput(cmd *cobra.Command, flag string) (string, error) {
	path, _ := cmd.Flags().GetString(flag)
	path = strings.TrimSpace(path)

	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return "", nil
	case "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("--%s: file %q does not exist", flag, path)
		}
		return "", fmt.Errorf("reading --%s: %w", flag, err)
	}
	return string(data), nil
}
