package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resume-screener/internal/extract"
	"resume-screener/internal/ranking"
	"resume-screener/internal/screener"
	"resume-screener/internal/shared/config"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank resumes against a job description",
	Long: `Reads a job description and one or more resumes (PDF, DOCX, HTML or text),
sends them to the ranking service in a single request and prints the ranked table.`,
	RunE: runRank,
}

var (
	rankJobFile     string
	rankJobText     string
	rankResumeFiles []string
	rankInteractive bool
	rankOutput      string
	rankURL         string
	rankTimeout     time.Duration
)

func init() {
	rankCmd.Flags().StringVarP(&rankJobFile, "job", "j", "", "Path to the job description file")
	rankCmd.Flags().StringVar(&rankJobText, "job-text", "", "Job description text")
	rankCmd.Flags().StringArrayVarP(&rankResumeFiles, "resume", "r", nil, "Path to a resume file (repeatable)")
	rankCmd.Flags().BoolVarP(&rankInteractive, "interactive", "i", false, "Prompt for the job description and resumes")
	rankCmd.Flags().StringVarP(&rankOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	rankCmd.Flags().StringVar(&rankURL, "url", "", "Ranking service base URL (overrides RANKING_SERVICE_URL)")
	rankCmd.Flags().DurationVar(&rankTimeout, "timeout", 0, "Ranking request timeout (0 uses RANKING_TIMEOUT_SECONDS)")
	rootCmd.AddCommand(rankCmd)
}

// rankInput is the form content gathered from flags, files or prompts.
type rankInput struct {
	JobDescription string
	Resumes        []string
}

func runRank(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(rankOutput); err != nil {
		return err
	}
	ctx := cmd.Context()

	var (
		in  rankInput
		err error
	)
	if rankInteractive {
		in, err = promptInput(ctx)
	} else {
		in, err = loadInput(ctx, rankJobFile, rankJobText, rankResumeFiles)
	}
	if err != nil {
		return err
	}

	cfg := config.Load()
	url := rankURL
	if url == "" {
		url = cfg.RankingServiceURL
	}
	timeout := rankTimeout
	if timeout == 0 {
		timeout = cfg.RankingTimeout
	}
	client, err := ranking.NewClient(url, timeout)
	if err != nil {
		return err
	}

	rows, err := rankRows(ctx, client, in)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rankOutput, rows)
}

// rankRows drives a form orchestrator with the gathered input and submits it.
func rankRows(ctx context.Context, ranker screener.Ranker, in rankInput) ([]screener.Row, error) {
	form := screener.New(ranker, screener.WithLabel("cli"))
	form.UpdateJobDescription(in.JobDescription)
	for i, text := range in.Resumes {
		if i > 0 {
			if _, err := form.AddResumeSlot(); err != nil {
				return nil, err
			}
		}
		if _, err := form.UpdateResumeText(i, text); err != nil {
			return nil, err
		}
	}

	s, err := form.Submit(ctx)
	if err != nil {
		if s.Error != "" {
			return nil, fmt.Errorf("%s: %w", s.Error, err)
		}
		return nil, err
	}
	return s.Rows(), nil
}

// loadInput reads the job description and resume files. Files are extracted
// concurrently; resume order follows the flag order.
func loadInput(ctx context.Context, jobFile, jobText string, resumeFiles []string) (rankInput, error) {
	if jobFile != "" && jobText != "" {
		return rankInput{}, errors.New("use either --job or --job-text, not both")
	}
	if len(resumeFiles) == 0 {
		return rankInput{}, errors.New("at least one --resume is required")
	}

	in := rankInput{JobDescription: jobText, Resumes: make([]string, len(resumeFiles))}
	g, gCtx := errgroup.WithContext(ctx)
	if jobFile != "" {
		g.Go(func() error {
			text, err := readText(gCtx, jobFile)
			if err != nil {
				return err
			}
			in.JobDescription = text
			return nil
		})
	}
	for i, path := range resumeFiles {
		g.Go(func() error {
			text, err := readText(gCtx, path)
			if err != nil {
				return err
			}
			in.Resumes[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rankInput{}, err
	}
	return in, nil
}

func readText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > extract.MaxFileSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, extract.MaxFileSize)
	}
	text, err := extract.TextFromBytes(ctx, data, "", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}

func promptInput(ctx context.Context) (rankInput, error) {
	var in rankInput
	if err := ask(ctx, &survey.Multiline{Message: "Job description"}, &in.JobDescription); err != nil {
		return in, err
	}
	for {
		var text string
		msg := fmt.Sprintf("Resume #%d text", len(in.Resumes)+1)
		if err := ask(ctx, &survey.Multiline{Message: msg}, &text); err != nil {
			return in, err
		}
		in.Resumes = append(in.Resumes, text)

		more := false
		if err := ask(ctx, &survey.Confirm{Message: "Add another resume?"}, &more); err != nil {
			return in, err
		}
		if !more {
			return in, nil
		}
	}
}

func ask(ctx context.Context, prompt survey.Prompt, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := survey.AskOne(prompt, out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return errors.New("cancelled")
		}
		return err
	}
	return nil
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
