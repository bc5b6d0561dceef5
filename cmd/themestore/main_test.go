package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/config"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/output"
	"github.com/raphi011/themestore/internal/storage"
)

const test15JSON = `{"name":"Test15","sub_themes":[{"name":"Animals","difficulties":[{"level":"Easy","questions":[{"id":1,"resources":[{"resource_name":"cat","resource_type":"Image","resource_uri":"res/cat.png"}]}]}]}]}`

type env struct {
	dataDir string
	config  string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	return env{
		dataDir: filepath.Join(root, "themes"),
		config:  filepath.Join(root, "config.toml"),
	}
}

// run executes the CLI with the env's config and data dir.
func (e env) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--config", e.config, "--data-dir", e.dataDir))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e env) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.run(t, stdin, args...)
	if err != nil {
		t.Fatalf("themestore %s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

func (e env) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.dataDir, name))
	return err == nil
}

func TestThemeLifecycle(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	src := filepath.Join(t.TempDir(), "test15.json")
	if err := os.WriteFile(src, []byte(test15JSON), 0o644); err != nil {
		t.Fatal(err)
	}

	e.mustRun(t, "", "put", src)
	if !e.exists("test15.json") {
		t.Fatal("put should write test15.json")
	}

	var entries []struct {
		Name  string `json:"name"`
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(e.mustRun(t, "", "list", "--json")), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "test15" || entries[0].State != "placeholder" {
		t.Errorf("list = %+v", entries)
	}

	table := e.mustRun(t, "", "ls")
	if !strings.Contains(table, "NAME") || !strings.Contains(table, "test15") {
		t.Errorf("ls output = %q", table)
	}

	shown := e.mustRun(t, "", "show", "TEST15", "--format", "toml")
	if !strings.Contains(shown, `name = "Test15"`) || !strings.Contains(shown, `level = "Easy"`) {
		t.Errorf("show --format toml = %q", shown)
	}

	// Rename through --replace with a TOML document on stdin.
	e.mustRun(t, "name = \"Test16\"\n", "put", "--replace", "test15", "--format", "toml")
	if e.exists("test15.json") {
		t.Error("test15.json should be purged after the rename")
	}
	if !e.exists("test16.json") {
		t.Error("test16.json should be written")
	}

	if _, _, err := e.run(t, "", "put", src); err != nil {
		t.Fatalf("re-adding test15 error = %v", err)
	}
	if _, _, err := e.run(t, "", "put", src); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate put error = %v", err)
	}

	e.mustRun(t, "", "rm", "Test16")
	if e.exists("test16.json") {
		t.Error("rm should delete test16.json")
	}
	if _, _, err := e.run(t, "", "rm", "test16"); err == nil {
		t.Error("removing a missing theme should fail")
	}
}

func TestShow_SuggestsNames(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.mustRun(t, test15JSON, "put")

	_, _, err := e.run(t, "", "show", "tst15")
	if err == nil {
		t.Fatal("show of an unknown theme should fail")
	}
	if !strings.Contains(err.Error(), "Did you mean") || !strings.Contains(err.Error(), "test15") {
		t.Errorf("error = %v, want a suggestion for test15", err)
	}
}

func TestPut_RejectsInvalid(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"malformed", `{"name":`, nil},
		{"bad level", `{"name":"x","sub_themes":[{"name":"s","difficulties":[{"level":"Insane"}]}]}`, nil},
		{"bad name", `{"name":"a/b"}`, nil},
		{"bad format", `{}`, []string{"--format", "yaml"}},
	}
	for _, tt := range tests {
		args := append([]string{"put"}, tt.args...)
		if _, _, err := e.run(t, tt.stdin, args...); err == nil {
			t.Errorf("%s: put should fail", tt.name)
		}
	}
}

func TestDataDirLocked(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	if _, err := storage.Open(e.dataDir, storage.JSON); err != nil {
		t.Fatal(err)
	}
	lock, err := storage.Lock(e.dataDir)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Unlock()

	_, _, err = e.run(t, "", "list")
	if err == nil || !strings.Contains(err.Error(), "in use") {
		t.Errorf("list on a locked dir error = %v", err)
	}
}

func TestDoctorCmd(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.mustRun(t, test15JSON, "put")
	e.mustRun(t, "", "doctor")

	if err := os.WriteFile(filepath.Join(e.dataDir, "test15.json.tmp"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.run(t, "", "doctor"); err == nil {
		t.Error("doctor should fail while issues remain")
	}
	e.mustRun(t, "", "doctor", "--fix")
	e.mustRun(t, "", "doctor")
}

func TestConfigCmd(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	if got := e.mustRun(t, "", "config", "init", "--stdout"); got != config.DefaultConfig() {
		t.Error("config init --stdout should print the default config")
	}

	e.mustRun(t, "", "config", "init")
	if _, err := os.Stat(e.config); err != nil {
		t.Fatalf("config init should create %s: %v", e.config, err)
	}
	if _, _, err := e.run(t, "", "config", "init"); err == nil {
		t.Error("config init should refuse to overwrite")
	}

	var view configView
	if err := json.Unmarshal([]byte(e.mustRun(t, "", "config", "show", "--json")), &view); err != nil {
		t.Fatal(err)
	}
	if view.DataDir != e.dataDir {
		t.Errorf("data_dir = %q, want --data-dir %q", view.DataDir, e.dataDir)
	}
	if view.FlushInterval != "5s" || view.RemovePolicy != "strict" {
		t.Errorf("config show = %+v", view)
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	if got := e.mustRun(t, "", "version"); !strings.HasPrefix(got, "themestore dev") {
		t.Errorf("version = %q", got)
	}
}

func TestSuggestNames(t *testing.T) {
	t.Parallel()

	keys := []string{"animals", "cities", "test15", "test39"}
	tests := []struct {
		name string
		want []string
	}{
		{"tst15", []string{"test15"}},
		{"TEST", []string{"test15", "test39"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got := suggestNames(tt.name, keys)
		if !slices.Equal(got, tt.want) {
			t.Errorf("suggestNames(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRunServe_FinalFlush(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	cfg := config.Default()
	cfg.DataDir = e.dataDir
	cfg.Flush.Interval = time.Hour // only the final flush writes
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = log.WithLogger(ctx, log.Discard())
	ctx = output.WithPrinter(ctx, &bytes.Buffer{})
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runServe(cmd, &cfg, ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Post(base+"/theme", "application/json", strings.NewReader(test15JSON))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}
	if e.exists("test15.json") {
		t.Fatal("nothing should be written before a flush")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
	if !e.exists("test15.json") {
		t.Error("final flush should write test15.json")
	}
}

func TestRunBench(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/theme/test15" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, test15JSON)
	}))
	defer ts.Close()

	res, err := runBench(context.Background(), ts.Client(), ts.URL+"/", "test15", 5)
	if err != nil {
		t.Fatalf("runBench() error = %v", err)
	}
	if res.Requests != 5 || res.Errors != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Average <= 0 || res.Last <= 0 {
		t.Errorf("latencies should be positive: %+v", res)
	}

	res, err = runBench(context.Background(), ts.Client(), ts.URL, "missing", 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors != 3 {
		t.Errorf("errors = %d, want 3", res.Errors)
	}
}
