package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"resume-screener/internal/ranking"
	"resume-screener/internal/screener"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadInputKeepsFlagOrder(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", "Go developer")
	first := writeFile(t, dir, "a.txt", "Java, Spring")
	second := writeFile(t, dir, "b.html", "<p>Go &amp; k8s</p>")

	in, err := loadInput(context.Background(), job, "", []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, "Go developer", in.JobDescription)
	assert.Equal(t, []string{"Java, Spring", "Go & k8s"}, in.Resumes)
}

func TestLoadInputErrors(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "a.txt", "text")

	_, err := loadInput(context.Background(), "job.txt", "inline", []string{resume})
	assert.ErrorContains(t, err, "either --job or --job-text")

	_, err = loadInput(context.Background(), "", "inline", nil)
	assert.ErrorContains(t, err, "--resume is required")

	_, err = loadInput(context.Background(), "", "inline", []string{filepath.Join(dir, "missing.txt")})
	assert.ErrorContains(t, err, "failed to read")

	empty := writeFile(t, dir, "empty.txt", "   ")
	_, err = loadInput(context.Background(), "", "inline", []string{empty})
	assert.ErrorContains(t, err, "failed to extract text")
}

func TestRankRowsAgainstService(t *testing.T) {
	var got ranking.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ranked_resumes":[{"resume_index":1,"similarity_score":0.92},{"resume_index":0,"similarity_score":0.41}]}`))
	}))
	defer srv.Close()

	client, err := ranking.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	rows, err := rankRows(context.Background(), client, rankInput{
		JobDescription: "Go dev",
		Resumes:        []string{"Java", "Go, k8s"},
	})
	require.NoError(t, err)
	assert.Equal(t, ranking.Request{JobDescription: "Go dev", Resumes: []string{"Java", "Go, k8s"}}, got)
	assert.Equal(t, []screener.Row{
		{Rank: 1, ResumeIndex: 1, SimilarityScore: 0.92, ResumeText: "Go, k8s"},
		{Rank: 2, ResumeIndex: 0, SimilarityScore: 0.41, ResumeText: "Java"},
	}, rows)
}

func TestRankRowsReportsValidationMessage(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	client, err := ranking.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = rankRows(context.Background(), client, rankInput{JobDescription: " ", Resumes: []string{"Go"}})
	require.ErrorIs(t, err, screener.ErrValidation)
	assert.True(t, strings.HasPrefix(err.Error(), screener.MsgJobDescriptionRequired))
	assert.False(t, called)
}

func TestWriteRowsFormats(t *testing.T) {
	rows := []screener.Row{
		{Rank: 1, ResumeIndex: 1, SimilarityScore: 0.92, ResumeText: "Go,\nk8s"},
	}

	var table bytes.Buffer
	require.NoError(t, writeRows(&table, outputTable, rows))
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Equal(t, []string{"1", "1", "0.92", "Go,", "k8s"}, strings.Fields(lines[1]))

	var js bytes.Buffer
	require.NoError(t, writeRows(&js, outputJSON, rows))
	var decoded []screener.Row
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)

	var ym bytes.Buffer
	require.NoError(t, writeRows(&ym, outputYAML, rows))
	var fromYAML []map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, 1, fromYAML[0]["resume_index"])
	assert.Equal(t, 0.92, fromYAML[0]["similarity_score"])

	assert.Error(t, writeRows(&js, "xml", rows))
	assert.Error(t, validateFormat("csv"))
	assert.NoError(t, validateFormat("YAML"))
}

func TestPreviewShortensLongText(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := preview(long)
	assert.Len(t, got, tableTextWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "one two", preview(" one\n\ttwo "))
}
